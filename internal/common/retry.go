package common

import (
	"database/sql"
	"errors"
	"time"
)

// backoff 第 attempt 次失败后的等待时间
var backoff = func(attempt int) time.Duration {
	return time.Second * time.Duration(attempt+1)
}

type temporaryError struct {
	err error
}

func (e *temporaryError) Error() string   { return e.err.Error() }
func (e *temporaryError) Unwrap() error   { return e.err }
func (e *temporaryError) Temporary() bool { return true }

// Temporary 把错误标记为可重试
func Temporary(err error) error {
	if err == nil {
		return nil
	}
	return &temporaryError{err: err}
}

// IsTemporary 判断是否为临时性错误
func IsTemporary(err error) bool {
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return false
}

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	return IsTemporary(err) || errors.Is(err, sql.ErrConnDone)
}

// WithRetry 通用重试机制，返回最后一次的错误
func WithRetry(operation func() error, maxRetries int) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if i < maxRetries-1 {
			time.Sleep(backoff(i))
		}
	}
	return err
}
