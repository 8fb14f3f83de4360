package source

// Cursor — построчное чтение с закладкой.
// Позиция — индекс следующей строки, поэтому возврат к закладке точен до строки.
type Cursor struct {
	lines []string
	pos   int
}

func NewCursor(lines []string) *Cursor {
	return &Cursor{lines: lines}
}

// Next возвращает следующую строку и её номер в файле (с 1)
func (c *Cursor) Next() (line string, lineNo int, ok bool) {
	if c.pos >= len(c.lines) {
		return "", 0, false
	}
	line = c.lines[c.pos]
	c.pos++
	return line, c.pos, true
}

// Mark запоминает текущую позицию
func (c *Cursor) Mark() int {
	return c.pos
}

// Reset возвращает курсор к закладке
func (c *Cursor) Reset(mark int) {
	if mark < 0 {
		mark = 0
	}
	if mark > len(c.lines) {
		mark = len(c.lines)
	}
	c.pos = mark
}

// Len — число строк в источнике
func (c *Cursor) Len() int {
	return len(c.lines)
}
