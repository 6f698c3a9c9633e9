package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"todoBoard/internal/handlers/dto"
	"todoBoard/internal/logger"
	"todoBoard/internal/models/todo"
	"todoBoard/internal/service"
	"todoBoard/internal/worker"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 30 * time.Second

	// DraftLayout is the deadline format of an edit draft, as typed by a user.
	DraftLayout = "2006-01-02T15:04"
)

var (
	ErrBusy       = errors.New("control is busy")
	ErrInvalid    = errors.New("invalid input")
	ErrUnknownRow = errors.New("no such row")
	ErrNotEditing = errors.New("row is not being edited")
)

// API is the subset of the todo API the board drives.
type API interface {
	List(ctx context.Context) ([]*todo.Todo, error)
	Create(ctx context.Context, text, deadline string) (*todo.Todo, error)
	Update(ctx context.Context, id string, req dto.UpdateTodoRequest) (*todo.Todo, error)
	Delete(ctx context.Context, id string) error
}

// Renderer draws a full view. It is called with the board locked and must
// not call back into the board.
type Renderer interface {
	Render(View)
}

// Notifier shows a user-facing alert.
type Notifier interface {
	Error(message string)
}

type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

type NotifierFunc func(string)

func (f NotifierFunc) Error(message string) { f(message) }

type RowState string

const (
	StateDisplay RowState = "display"
	StateEditing RowState = "editing"
)

type Draft struct {
	Text     string
	Deadline string
}

// Row is one rendered todo.
type Row struct {
	Todo    todo.Todo
	Urgency Urgency
	State   RowState
	Draft   Draft
	Busy    bool
}

type View struct {
	Rows     []Row
	Creating bool
}

type row struct {
	item  *todo.Todo
	state RowState
	draft Draft
}

type Option func(*Board)

func WithPollInterval(interval time.Duration) Option {
	return func(b *Board) {
		b.pollInterval = interval
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// Board holds the client state for one rendered list: the rows in display
// order, per-row edit state and the in-flight flag of every control.
type Board struct {
	api          API
	renderer     Renderer
	notifier     Notifier
	now          func() time.Time
	pollInterval time.Duration

	mu       sync.Mutex
	rows     []*row
	inFlight map[string]bool
}

func New(api API, renderer Renderer, notifier Notifier, options ...Option) *Board {
	b := &Board{
		api:          api,
		renderer:     renderer,
		notifier:     notifier,
		now:          time.Now,
		pollInterval: DefaultPollInterval,
		inFlight:     make(map[string]bool),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Run loads the list and reloads it every poll interval until ctx is
// cancelled.
func (b *Board) Run(ctx context.Context) error {
	_ = b.Load(ctx)

	worker.NewPoller("board", b.Load, b.pollInterval).Start(ctx)
	return nil
}

// Load fetches the list, sorts it and rebuilds every row in display state.
// On failure the current rows are kept.
func (b *Board) Load(ctx context.Context) error {
	todos, err := b.api.List(ctx)
	if err != nil {
		b.fail("Failed to load tasks", err)
		return err
	}

	SortByDeadline(todos)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.rows = make([]*row, 0, len(todos))
	for _, t := range todos {
		b.rows = append(b.rows, &row{item: t, state: StateDisplay})
	}
	b.renderLocked()
	return nil
}

// View returns a snapshot of what was last rendered.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

func (b *Board) Create(ctx context.Context, text, deadline string) error {
	release, err := b.acquire("create")
	if err != nil {
		return err
	}
	defer release()

	text = strings.TrimSpace(text)
	if text == "" {
		return b.invalid("Please enter a task")
	}
	if strings.TrimSpace(deadline) == "" {
		return b.invalid("Please choose a deadline")
	}
	due, err := b.futureDeadline(deadline)
	if err != nil {
		return err
	}

	if _, err := b.api.Create(ctx, text, due.Format(time.RFC3339)); err != nil {
		b.fail("Failed to add task", err)
		return err
	}

	_ = b.Load(ctx)
	return nil
}

func (b *Board) ToggleDone(ctx context.Context, id string) error {
	b.mu.Lock()
	r := b.findLocked(id)
	if r == nil {
		b.mu.Unlock()
		return ErrUnknownRow
	}
	done := !r.item.Done
	b.mu.Unlock()

	release, err := b.acquire("done:" + id)
	if err != nil {
		return err
	}
	defer release()

	if _, err := b.api.Update(ctx, id, dto.UpdateTodoRequest{Done: &done}); err != nil {
		b.fail("Failed to update task", err)
		return err
	}

	_ = b.Load(ctx)
	return nil
}

// Delete removes a todo. Asking the user for confirmation is up to the caller.
func (b *Board) Delete(ctx context.Context, id string) error {
	release, err := b.acquire("delete:" + id)
	if err != nil {
		return err
	}
	defer release()

	if err := b.api.Delete(ctx, id); err != nil {
		b.fail("Failed to delete task", err)
		return err
	}

	_ = b.Load(ctx)
	return nil
}

func (b *Board) BeginEdit(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.findLocked(id)
	if r == nil {
		return ErrUnknownRow
	}

	r.state = StateEditing
	r.draft = Draft{Text: r.item.Text}
	if r.item.Deadline != nil {
		r.draft.Deadline = r.item.Deadline.In(time.Local).Format(DraftLayout)
	}
	b.renderLocked()
	return nil
}

// CancelEdit drops the draft and reloads the whole list.
func (b *Board) CancelEdit(ctx context.Context, id string) error {
	b.mu.Lock()
	if r := b.findLocked(id); r != nil {
		r.state = StateDisplay
		r.draft = Draft{}
	}
	b.mu.Unlock()

	return b.Load(ctx)
}

// SaveEdit submits the edited text and, when given, the new deadline. On a
// validation or request failure the row stays in editing with the typed
// values kept as its draft.
func (b *Board) SaveEdit(ctx context.Context, id, text, deadline string) error {
	b.mu.Lock()
	r := b.findLocked(id)
	switch {
	case r == nil:
		b.mu.Unlock()
		return ErrUnknownRow
	case r.state != StateEditing:
		b.mu.Unlock()
		return ErrNotEditing
	}
	r.draft = Draft{Text: text, Deadline: deadline}
	b.mu.Unlock()

	release, err := b.acquire("save:" + id)
	if err != nil {
		return err
	}
	defer release()

	text = strings.TrimSpace(text)
	if text == "" {
		return b.invalid("Task text cannot be empty")
	}

	req := dto.UpdateTodoRequest{Text: &text}
	if strings.TrimSpace(deadline) != "" {
		due, err := b.futureDeadline(deadline)
		if err != nil {
			return err
		}
		formatted := due.Format(time.RFC3339)
		req.Deadline = &formatted
	}

	if _, err := b.api.Update(ctx, id, req); err != nil {
		b.fail("Failed to update task", err)
		return err
	}

	_ = b.Load(ctx)
	return nil
}

func (b *Board) futureDeadline(raw string) (time.Time, error) {
	due, err := service.ParseDeadline(raw)
	if err != nil {
		return time.Time{}, b.invalid("Deadline is not a valid date")
	}
	if due.Before(b.now()) {
		return time.Time{}, b.invalid("Deadline cannot be in the past")
	}
	return due, nil
}

// acquire marks a control as in flight. The returned func re-enables it.
func (b *Board) acquire(control string) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFlight[control] {
		return nil, ErrBusy
	}
	b.inFlight[control] = true

	return func() {
		b.mu.Lock()
		delete(b.inFlight, control)
		b.mu.Unlock()
	}, nil
}

func (b *Board) invalid(message string) error {
	b.notify(message)
	return fmt.Errorf("%w: %s", ErrInvalid, message)
}

func (b *Board) fail(message string, err error) {
	logger.Error("Board: "+strings.ToLower(message), err)
	b.notify(fmt.Sprintf("%s: %s", message, err.Error()))
}

func (b *Board) notify(message string) {
	if b.notifier != nil {
		b.notifier.Error(message)
	}
}

func (b *Board) findLocked(id string) *row {
	for _, r := range b.rows {
		if r.item.ID == id {
			return r
		}
	}
	return nil
}

func (b *Board) viewLocked() View {
	now := b.now()
	view := View{
		Rows:     make([]Row, 0, len(b.rows)),
		Creating: b.inFlight["create"],
	}
	for _, r := range b.rows {
		id := r.item.ID
		view.Rows = append(view.Rows, Row{
			Todo:    *r.item.Clone(),
			Urgency: Classify(r.item.Deadline, now),
			State:   r.state,
			Draft:   r.draft,
			Busy:    b.inFlight["done:"+id] || b.inFlight["delete:"+id] || b.inFlight["save:"+id],
		})
	}
	return view
}

func (b *Board) renderLocked() {
	if b.renderer == nil {
		return
	}
	b.renderer.Render(b.viewLocked())
	logger.Log(zap.DebugLevel, "Board: rendered", zap.Int("rows", len(b.rows)))
}
