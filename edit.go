package main

// BeginEdit opens the inline editor on a circle, rect or text. The text is
// edited live, so the snapshot is taken here rather than per keystroke.
func (e *Editor) BeginEdit(id string) bool {
	k, ok := e.board.Lookup(id)
	if !ok {
		return false
	}
	switch k {
	case KindCircle, KindRect, KindText:
	default:
		return false
	}
	e.saveHistory()
	e.editingID = id
	return true
}

// StopEditing closes the editor. Whatever was typed stays.
func (e *Editor) StopEditing() {
	e.editingID = ""
}

// EditingText returns the current content of the shape being edited.
func (e *Editor) EditingText() string {
	s, ok := e.board.Get(e.editingID)
	if !ok {
		return ""
	}
	return shapeText(s)
}

// InsertText appends typed runes to the shape being edited.
func (e *Editor) InsertText(text string) {
	if e.editingID == "" {
		return
	}
	e.setText(e.EditingText() + text)
}

// EditBackspace removes the last rune of the shape being edited.
func (e *Editor) EditBackspace() {
	if e.editingID == "" {
		return
	}
	r := []rune(e.EditingText())
	if len(r) == 0 {
		return
	}
	e.setText(string(r[:len(r)-1]))
}

func (e *Editor) setText(text string) {
	e.board.Update(e.editingID, func(s Shape) Shape {
		switch v := s.(type) {
		case Circle:
			v.Text = text
			return v
		case Rect:
			v.Text = text
			return v
		case Text:
			v.Text = text
			return v
		}
		return s
	})
}

func shapeText(s Shape) string {
	switch v := s.(type) {
	case Circle:
		return v.Text
	case Rect:
		return v.Text
	case Text:
		return v.Text
	}
	return ""
}
