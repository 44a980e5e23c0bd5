package api

import (
	"github.com/gaze-network/commission-ledger/modules/ledger/api/httphandler"
	"github.com/gaze-network/commission-ledger/modules/ledger/usecase"
)

func NewHTTPHandler(usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(usecase)
}
