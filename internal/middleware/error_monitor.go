package middleware

import (
	"strconv"
	"sync"

	"shop-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var appErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "app_errors_total",
		Help: "Total number of application errors by code",
	},
	[]string{"code"},
)

// ErrorMonitor 按错误码统计请求中产生的 AppError
type ErrorMonitor struct {
	errorCounts map[errors.ErrorCode]int
	mu          sync.RWMutex
}

func NewErrorMonitor() *ErrorMonitor {
	return &ErrorMonitor{
		errorCounts: make(map[errors.ErrorCode]int),
	}
}

func (m *ErrorMonitor) RecordError(err error) {
	appErr, ok := errors.As(err)
	if !ok {
		return
	}
	m.mu.Lock()
	m.errorCounts[appErr.Code]++
	m.mu.Unlock()
	appErrorsTotal.WithLabelValues(strconv.Itoa(int(appErr.Code))).Inc()
}

func (m *ErrorMonitor) GetErrorCounts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[errors.ErrorCode]int, len(m.errorCounts))
	for code, count := range m.errorCounts {
		counts[code] = count
	}
	return counts
}

func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			monitor.RecordError(e.Err)

			appErr, ok := errors.As(e.Err)
			if !ok {
				continue
			}
			fields := []zap.Field{
				zap.Int("error_code", int(appErr.Code)),
				zap.String("error_message", appErr.Message),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("request_id", c.GetString(ContextRequestID)),
			}
			if appErr.Err != nil {
				fields = append(fields, zap.Error(appErr.Err))
			}
			// 5xx 才是服务端问题
			if errors.StatusOf(appErr.Code) >= 500 {
				zap.L().Error("请求处理错误", fields...)
			} else {
				zap.L().Info("请求被拒绝", fields...)
			}
		}
	}
}
