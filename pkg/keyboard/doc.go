// Package keyboard builds Telegram keyboards as row/column grids.
//
// A Builder accumulates tele.Btn values into rows bounded by the Bot API
// limits (8 buttons per row, 100 per keyboard), offers packing and re-flow
// operations, and finally renders the telebot ReplyMarkup wire shape.
// Every mutating operation validates first and commits atomically: a
// rejected call leaves the grid untouched.
package keyboard
