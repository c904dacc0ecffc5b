package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrvault/qrvault/internal/core/ports"
)

// QRCodeHandler handles HTTP requests for QR code generation and history.
type QRCodeHandler struct {
	service ports.QRCodeService
}

func NewQRCodeHandler(service ports.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{service: service}
}

// Generate handles POST /v1/qrcodes — encodes text and optionally saves it
// to the caller's history.
//
// @Summary      Generate a QR code
// @Tags         qrcodes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateQRCodeRequest  true  "Text to encode and save flag"
// @Success      200   {object}  generateQRCodeResponse
// @Success      201   {object}  generateQRCodeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/qrcodes [post]
func (h *QRCodeHandler) Generate(c echo.Context) error {
	var req generateQRCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Generate(c.Request().Context(), ports.GenerateQRCodeInput{
		UserID: userID,
		Text:   req.Text,
		Save:   req.Save,
	})
	if err != nil {
		return err
	}

	resp := generateQRCodeResponse{
		ImagePNG: base64.StdEncoding.EncodeToString(result.PNG),
	}

	status := http.StatusOK
	if result.Record != nil {
		record := toQRCodeResponse(*result.Record)
		resp.Record = &record
		status = http.StatusCreated
	}

	return c.JSON(status, resp)
}

// List handles GET /v1/qrcodes — the caller's saved history, newest first.
//
// @Summary      List own QR code history
// @Tags         qrcodes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listQRCodesResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/qrcodes [get]
func (h *QRCodeHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	codes, err := h.service.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	data := make([]qrCodeResponse, 0, len(codes))
	for _, code := range codes {
		data = append(data, toQRCodeResponse(code))
	}

	return c.JSON(http.StatusOK, listQRCodesResponse{Data: data})
}
