package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"storefront/internal/platform/logger"

	"github.com/labstack/echo/v4"
)

// 1リクエスト1行のアクセスログ
func AccessLog(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// echo の HTTPErrorHandler に任せてステータスを確定させる
				c.Error(err)
			}

			res := c.Response()
			kv := []interface{}{
				"request_id", RequestIDFrom(c),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route", c.Path(),
				"status", res.Status,
				"bytes", res.Size,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case res.Status >= 500:
				log.Error("http request", kv...)
			case res.Status >= 400:
				log.Warn("http request", kv...)
			default:
				log.Info("http request", kv...)
			}
			return nil
		}
	}
}

// panicしても500で返す
func Recover(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered",
						"request_id", RequestIDFrom(c),
						"panic", fmt.Sprint(rec),
						"stack", string(debug.Stack()),
					)
					err = c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
			}()
			return next(c)
		}
	}
}
