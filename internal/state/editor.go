package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/fsm"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// 编辑弹窗状态
const (
	EditorHidden  = "hidden"
	EditorEditing = "editing"
)

// 编辑弹窗事件
const (
	EventShow   = "show"
	EventSubmit = "submit"
	EventHide   = "hide"
)

// MinIntervalMiles 间隔允许的最小值
const MinIntervalMiles = 1

var (
	// ErrInvalidMiles 提交的里程不合法
	ErrInvalidMiles = errors.New("interval must be more than 0 miles")
	// ErrEditorClosed 弹窗未打开
	ErrEditorClosed = errors.New("interval editor is not open")
)

// EditorState 弹窗快照
type EditorState struct {
	State     string                      `json:"state"`
	Validated bool                        `json:"validated"`
	Draft     *models.MaintenanceInterval `json:"draft,omitempty"`
}

// IntervalEditor 保养间隔编辑弹窗
type IntervalEditor struct {
	mu        sync.Mutex
	fsm       *fsm.FSM
	draft     *models.MaintenanceInterval
	validated bool
}

// NewIntervalEditor 创建编辑弹窗（初始隐藏）
func NewIntervalEditor() *IntervalEditor {
	e := &IntervalEditor{}
	e.fsm = fsm.NewFSM(
		EditorHidden,
		fsm.Events{
			{Name: EventShow, Src: []string{EditorHidden, EditorEditing}, Dst: EditorEditing},
			{Name: EventSubmit, Src: []string{EditorEditing}, Dst: EditorHidden},
			{Name: EventHide, Src: []string{EditorHidden, EditorEditing}, Dst: EditorHidden},
		},
		fsm.Callbacks{
			"before_" + EventSubmit: func(ctx context.Context, ev *fsm.Event) {
				// 校验失败则保持编辑状态
				e.validated = true
				if e.draft == nil || !(e.draft.Miles >= MinIntervalMiles) {
					ev.Cancel(ErrInvalidMiles)
				}
			},
			"enter_" + EditorHidden: func(ctx context.Context, ev *fsm.Event) {
				e.draft = nil
			},
		},
	)
	return e
}

// Show 打开弹窗并以 interval 当前值作为草稿
func (e *IntervalEditor) Show(interval models.MaintenanceInterval) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.trigger(EventShow); err != nil {
		return err
	}
	e.draft = &interval
	e.validated = false
	return nil
}

// SetDraft 修改草稿里程
func (e *IntervalEditor) SetDraft(miles float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return ErrEditorClosed
	}
	e.draft.Miles = miles
	return nil
}

// Submit 校验草稿；通过则关闭弹窗并返回对应的修改动作
func (e *IntervalEditor) Submit() (IntervalAction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var action IntervalAction
	if e.draft != nil {
		action = IntervalAction{Key: e.draft.Key, Miles: e.draft.Miles}
	}
	if err := e.trigger(EventSubmit); err != nil {
		return IntervalAction{}, err
	}
	return action, nil
}

// SubmitMiles 在同一次加锁内写入草稿并提交，弹窗未打开时返回 ErrEditorClosed
func (e *IntervalEditor) SubmitMiles(miles float64) (IntervalAction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fsm.Current() != EditorEditing || e.draft == nil {
		return IntervalAction{}, ErrEditorClosed
	}
	e.draft.Miles = miles

	action := IntervalAction{Key: e.draft.Key, Miles: miles}
	if err := e.trigger(EventSubmit); err != nil {
		return IntervalAction{}, err
	}
	return action, nil
}

// Hide 关闭弹窗，丢弃草稿
func (e *IntervalEditor) Hide() {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.trigger(EventHide)
}

// State 当前快照
func (e *IntervalEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := EditorState{
		State:     e.fsm.Current(),
		Validated: e.validated,
	}
	if e.draft != nil {
		draft := *e.draft
		s.Draft = &draft
	}
	return s
}

func (e *IntervalEditor) trigger(event string) error {
	err := e.fsm.Event(context.Background(), event)

	var noTransition fsm.NoTransitionError
	if err == nil || errors.As(err, &noTransition) {
		return nil
	}

	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		return ErrEditorClosed
	}

	var canceled fsm.CanceledError
	if errors.As(err, &canceled) && canceled.Err != nil {
		return canceled.Err
	}
	return fmt.Errorf("trigger event %s: %w", event, err)
}
