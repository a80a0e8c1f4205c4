package interfaces

import "errors"

var (
	// ErrDuplicate 表示违反了唯一约束，由具体实现从驱动错误转换而来
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound 表示按主键更新或删除时没有命中任何记录
	ErrNotFound = errors.New("record not found")
)
