package keyboard

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"tgkit/pkg/callback"
)

// Kind selects which keyboard flavor a Builder produces.
type Kind uint8

const (
	// Inline builds inline keyboards (buttons attached to a message).
	Inline Kind = iota
	// Reply builds reply keyboards (buttons replacing the user keyboard).
	Reply
)

func (k Kind) String() string {
	if k == Reply {
		return "reply"
	}
	return "inline"
}

// allows reports whether a button's shape fits this keyboard kind.
// Contact/location/poll requests only exist on reply keyboards; callback
// data, URLs, inline-query switches and login buttons only make sense
// inline, and an inline button must carry at least one of them.
func (k Kind) allows(b tele.Btn) bool {
	replyOnly := b.Contact || b.Location || b.Poll != ""
	inlineOnly := b.Data != "" || b.URL != "" || b.InlineQuery != "" ||
		b.InlineQueryChat != "" || b.Login != nil
	switch k {
	case Reply:
		return !inlineOnly
	default:
		return inlineOnly && !replyOnly
	}
}

// Builder accumulates buttons into a grid of rows.
// The zero value is not usable; construct with New, NewInline or NewReply.
type Builder struct {
	kind Kind
	rows [][]tele.Btn
}

// New creates a builder of the given kind, optionally seeded with existing
// rows. Seed rows are validated like any other mutation.
func New(kind Kind, rows ...[]tele.Btn) (*Builder, error) {
	b := &Builder{kind: kind}
	grid := make([][]tele.Btn, 0, len(rows))
	for _, r := range rows {
		grid = append(grid, append([]tele.Btn(nil), r...))
	}
	if err := b.validate(grid); err != nil {
		return nil, err
	}
	b.rows = grid
	return b, nil
}

// NewInline creates an empty inline-keyboard builder.
func NewInline() *Builder { return &Builder{kind: Inline} }

// NewReply creates an empty reply-keyboard builder.
func NewReply() *Builder { return &Builder{kind: Reply} }

// Kind returns the builder's keyboard kind.
func (b *Builder) Kind() Kind { return b.kind }

// Len returns the total button count across all rows.
func (b *Builder) Len() int {
	n := 0
	for _, r := range b.rows {
		n += len(r)
	}
	return n
}

// Buttons returns all buttons in row-major order (left to right, top to
// bottom).
func (b *Builder) Buttons() []tele.Btn {
	out := make([]tele.Btn, 0, b.Len())
	for _, r := range b.rows {
		out = append(out, r...)
	}
	return out
}

// Export returns an independent copy of the grid. Mutating the returned
// rows does not affect the builder.
func (b *Builder) Export() [][]tele.Btn {
	out := make([][]tele.Btn, len(b.rows))
	for i, r := range b.rows {
		out[i] = append([]tele.Btn(nil), r...)
	}
	return out
}

// Add appends buttons left to right, filling the last row up to MaxWidth
// before opening new rows for the remainder.
func (b *Builder) Add(buttons ...tele.Btn) error {
	if err := b.checkButtons(buttons...); err != nil {
		return err
	}
	grid := b.Export()

	if n := len(grid); n > 0 && len(grid[n-1]) < MaxWidth {
		free := MaxWidth - len(grid[n-1])
		if free > len(buttons) {
			free = len(buttons)
		}
		grid[n-1] = append(grid[n-1], buttons[:free]...)
		buttons = buttons[free:]
	}
	for len(buttons) > 0 {
		w := MaxWidth
		if w > len(buttons) {
			w = len(buttons)
		}
		grid = append(grid, append([]tele.Btn(nil), buttons[:w]...))
		buttons = buttons[w:]
	}

	return b.commit(grid)
}

// Row appends fresh rows of exactly width buttons each (the last row may
// be shorter), regardless of how full the current last row is.
func (b *Builder) Row(width int, buttons ...tele.Btn) error {
	if width < MinWidth || width > MaxWidth {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrWidth, width, MinWidth, MaxWidth)
	}
	if err := b.checkButtons(buttons...); err != nil {
		return err
	}
	grid := b.Export()
	for pos := 0; pos < len(buttons); pos += width {
		end := pos + width
		if end > len(buttons) {
			end = len(buttons)
		}
		grid = append(grid, append([]tele.Btn(nil), buttons[pos:end]...))
	}
	return b.commit(grid)
}

// Adjust re-flows every held button, in row-major order, into new rows
// sized by sizes in sequence. With repeat false the last size is reused
// for the remainder; with repeat true sizes cycles. Empty sizes means
// one size of MaxWidth. The grid's row structure is replaced entirely;
// button identity and order are preserved.
func (b *Builder) Adjust(repeat bool, sizes ...int) error {
	if len(sizes) == 0 {
		sizes = []int{MaxWidth}
	}
	for _, sz := range sizes {
		if sz < MinWidth || sz > MaxWidth {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrWidth, sz, MinWidth, MaxWidth)
		}
	}

	buttons := b.Buttons()
	var grid [][]tele.Btn
	for i := 0; len(buttons) > 0; i++ {
		var w int
		if repeat {
			w = sizes[i%len(sizes)]
		} else if i < len(sizes) {
			w = sizes[i]
		} else {
			w = sizes[len(sizes)-1]
		}
		if w > len(buttons) {
			w = len(buttons)
		}
		grid = append(grid, append([]tele.Btn(nil), buttons[:w]...))
		buttons = buttons[w:]
	}

	b.rows = grid
	return nil
}

// Button encodes data and appends a callback button via Add.
func (b *Builder) Button(text string, data *callback.Instance) error {
	payload, err := data.Encode()
	if err != nil {
		return err
	}
	return b.Add(tele.Btn{Text: text, Data: payload})
}

// Attach appends all rows of other onto this grid. Both builders must be
// of the same kind.
func (b *Builder) Attach(other *Builder) error {
	if other.kind != b.kind {
		return fmt.Errorf("%w: can not attach %s keyboard to %s keyboard",
			ErrBuilderKind, other.kind, b.kind)
	}
	grid := append(b.Export(), other.Export()...)
	return b.commit(grid)
}

// Markup renders the grid as the telebot wire markup. Purely structural:
// all geometry was enforced by the mutating operations.
func (b *Builder) Markup() *tele.ReplyMarkup {
	rm := &tele.ReplyMarkup{}
	rows := make([]tele.Row, len(b.rows))
	for i, r := range b.rows {
		rows[i] = tele.Row(append([]tele.Btn(nil), r...))
	}
	if b.kind == Reply {
		rm.Reply(rows...)
	} else {
		rm.Inline(rows...)
	}
	return rm
}

func (b *Builder) checkButtons(buttons ...tele.Btn) error {
	for _, btn := range buttons {
		if !b.kind.allows(btn) {
			return fmt.Errorf("%w: button %q does not fit %s keyboard",
				ErrButtonKind, btn.Text, b.kind)
		}
	}
	return nil
}

func (b *Builder) validate(grid [][]tele.Btn) error {
	count := 0
	for _, r := range grid {
		if len(r) > MaxWidth {
			return fmt.Errorf("%w: row of %d buttons exceeds %d", ErrWidth, len(r), MaxWidth)
		}
		if err := b.checkButtons(r...); err != nil {
			return err
		}
		count += len(r)
	}
	if count > MaxButtons {
		return fmt.Errorf("%w: %d > %d", ErrTooManyButtons, count, MaxButtons)
	}
	return nil
}

// commit validates the candidate grid and swaps it in. Callers that
// pre-validated button kinds still go through the geometry checks so no
// partial mutation can ever be observed.
func (b *Builder) commit(grid [][]tele.Btn) error {
	if err := b.validate(grid); err != nil {
		return err
	}
	b.rows = grid
	return nil
}

// Btn creates a callback button with raw callback_data (not encoded here;
// use Builder.Button or pkg/callback for structured payloads).
func Btn(text, data string) tele.Btn {
	return tele.Btn{Text: text, Data: data}
}

// URLBtn creates a URL button.
func URLBtn(text, url string) tele.Btn {
	return tele.Btn{Text: text, URL: url}
}

// TextBtn creates a plain text button for reply keyboards.
func TextBtn(text string) tele.Btn {
	return tele.Btn{Text: text}
}
