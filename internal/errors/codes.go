package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 편집 권한 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재

	// ==================== 식당 (RESTAURANT_) ====================
	RestaurantNotFound     = "RESTAURANT_NOT_FOUND"     // 식당 없음
	RestaurantNameExists   = "RESTAURANT_NAME_EXISTS"   // 식당 이름 중복
	RestaurantBatchInvalid = "RESTAURANT_BATCH_INVALID" // 일괄 저장 검증 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExportFailed  = "INTERNAL_EXPORT_FAILED"  // 엑셀 내보내기 실패
)
