package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mchain/internal/middleware"
	"github.com/xxxsen/mchain/internal/pkg/dbutil"
	"github.com/xxxsen/mchain/internal/pkg/errcode"
	appErr "github.com/xxxsen/mchain/internal/pkg/errors"
	"github.com/xxxsen/mchain/internal/pkg/response"
)

func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", appErr.ErrInvalid, err)
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("api error",
		zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
		zap.String("client_ip", middleware.GetClientIP(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("db_code", dbutil.DriverCode(err)),
		zap.Error(err),
	)
	switch {
	case appErr.IsInvalid(err):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case appErr.IsEstimation(err):
		response.Error(c, errcode.ErrNoHistory, "no text history yet, submit text first or pass max_length")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
