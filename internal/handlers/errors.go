package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Error(logMsg, zap.Int("status", status), zap.Error(err))
	}

	http.Error(w, userMsg, status)
}
