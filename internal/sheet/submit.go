package sheet

import (
	"context"
	"fmt"

	"github.com/arch-spatula/jmc/pkg/logger"
)

// Saver submits one batch atomically. The error text is shown to the
// editor verbatim.
type Saver interface {
	SaveBatch(ctx context.Context, payload Payload) error
}

// ReloadFunc fetches the persisted records a table is re-rendered from.
type ReloadFunc func(ctx context.Context) ([]Record, error)

// Outcome 저장 시도 결과
type Outcome struct {
	Payload Payload
	Saved   bool  // 저장 요청이 수락됨
	Err     error // 저장 실패 또는 저장 후 재로드 실패
}

// Message returns the text to show the editor, empty on success.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Coordinator sends the collected batch and reacts to the result.
type Coordinator struct {
	saver  Saver
	reload ReloadFunc
}

func NewCoordinator(saver Saver, reload ReloadFunc) *Coordinator {
	return &Coordinator{
		saver:  saver,
		reload: reload,
	}
}

// Submit collects the table, saves the batch and on success reloads the
// table from persisted state. On failure the table is left exactly as it
// was so the editor can retry. Edits made while the save is in flight stay
// in the table and are picked up by the next collection.
func (c *Coordinator) Submit(ctx context.Context, t *Table) Outcome {
	payload := t.Collect()

	logger.Debug("Submitting sheet batch", map[string]interface{}{
		"new":    len(payload.New),
		"update": len(payload.Update),
		"delete": len(payload.Delete),
	})

	if err := c.saver.SaveBatch(ctx, payload); err != nil {
		logger.Warn("Sheet batch rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return Outcome{Payload: payload, Err: err}
	}

	records, err := c.reload(ctx)
	if err != nil {
		logger.Error("Failed to reload sheet after save", err)
		return Outcome{Payload: payload, Saved: true, Err: fmt.Errorf("저장 후 목록을 다시 불러오지 못했습니다: %w", err)}
	}
	t.Reset(records)

	logger.Info("Sheet batch saved", map[string]interface{}{
		"rows": len(records),
	})
	return Outcome{Payload: payload, Saved: true}
}
