package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자에게 보여줄 메시지
}

// ParseError 저장소/DB 에러를 코드와 메시지로 변환
// context는 "create", "update", "delete", "save" 중 하나
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "서버 오류가 발생했습니다"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: RestaurantNotFound, Message: "식당을 찾을 수 없습니다"}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorInfo{Code: RestaurantNameExists, Message: "이미 등록된 식당 이름입니다"}
	}

	errLower := strings.ToLower(err.Error())

	// postgres 23505, sqlite UNIQUE constraint failed
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{Code: RestaurantNameExists, Message: "이미 등록된 식당 이름입니다"}
	}
	if strings.Contains(errLower, "not null") || strings.Contains(errLower, "not-null") {
		return ErrorInfo{Code: ValidationRequired, Message: "필수 항목이 누락되었습니다"}
	}
	if strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalDatabaseError, Message: "데이터베이스 연결에 실패했습니다. 잠시 후 다시 시도해주세요"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func defaultMessage(context string) string {
	switch context {
	case "create":
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case "update":
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case "delete":
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case "save":
		return "저장 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// ParseAndRespond 에러를 파싱하여 응답 반환
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
