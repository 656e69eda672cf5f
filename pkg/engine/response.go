// pkg/engine/response.go
package engine

import "strings"

// Response is the sum of {Message(text), Table(table)} returned by every
// Database operation (§4.10).
type Response struct {
	isTable bool
	message string
	table   *Table
}

// NewMessageResponse wraps a status string.
func NewMessageResponse(msg string) *Response {
	return &Response{message: msg}
}

// NewTableResponse wraps a result table.
func NewTableResponse(t *Table) *Response {
	return &Response{isTable: true, table: t}
}

// IsTable reports whether the response carries a table rather than a plain
// message.
func (r *Response) IsTable() bool { return r.isTable }

// Message returns the status text; valid only when !IsTable().
func (r *Response) Message() string { return r.message }

// Table returns the result table; valid only when IsTable().
func (r *Response) Table() *Table { return r.table }

// Render formats the response for display: a message prints verbatim; a
// table prints column headers left-padded to
// max(max_len_of_value, header_len+3), then each row's values at the same
// per-column width. Null renders as the literal NULL (§4.10).
func (r *Response) Render() string {
	if !r.isTable {
		return r.message
	}
	names := r.table.ColumnNames()
	widths := make([]int, len(names))
	for i, name := range names {
		col, _ := r.table.Column(name)
		width := col.MaxLen()
		if headerWidth := len(name) + 3; headerWidth > width {
			width = headerWidth
		}
		widths[i] = width
	}

	var sb strings.Builder
	for i, name := range names {
		sb.WriteString(padRight(name, widths[i]))
	}
	sb.WriteByte('\n')
	for row := 0; row < r.table.NumRows(); row++ {
		for i, name := range names {
			col, _ := r.table.Column(name)
			sb.WriteString(padRight(col.At(row).Render(), widths[i]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
