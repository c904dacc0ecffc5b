package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrvault/qrvault/internal/core/ports"
)

// AdminHandler serves the admin-only surface. Role gating happens in the
// RBAC middleware; the underlying stores stay capability-agnostic.
type AdminHandler struct {
	qrcodes     ports.QRCodeService
	credentials ports.CredentialService
}

func NewAdminHandler(qrcodes ports.QRCodeService, credentials ports.CredentialService) *AdminHandler {
	return &AdminHandler{qrcodes: qrcodes, credentials: credentials}
}

// ListQRCodes handles GET /v1/admin/qrcodes — every user's saved codes with
// the owner resolved, newest first.
//
// @Summary      List all saved QR codes with owner
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listAllQRCodesResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/admin/qrcodes [get]
func (h *AdminHandler) ListQRCodes(c echo.Context) error {
	codes, err := h.qrcodes.ListAllWithOwner(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]qrCodeWithOwnerResponse, 0, len(codes))
	for _, code := range codes {
		data = append(data, qrCodeWithOwnerResponse{
			ID:        code.ID,
			Username:  code.OwnerUsername,
			Text:      code.Text,
			CreatedAt: code.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, listAllQRCodesResponse{Data: data})
}

// DeleteQRCode handles DELETE /v1/admin/qrcodes/:id. Deleting an id that does
// not exist returns 404 rather than silently succeeding.
//
// @Summary      Delete a saved QR code by id
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "QR code id"
// @Success      204  "deleted"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/qrcodes/{id} [delete]
func (h *AdminHandler) DeleteQRCode(c echo.Context) error {
	if err := h.qrcodes.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers handles GET /v1/admin/users — the audited username listing
// diagnostic. Every call leaves an audit log line in the service layer.
//
// @Summary      List all registered usernames
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsernamesResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	usernames, err := h.credentials.ListUsernames(c.Request().Context())
	if err != nil {
		return err
	}
	if usernames == nil {
		usernames = []string{}
	}
	return c.JSON(http.StatusOK, listUsernamesResponse{Usernames: usernames})
}
