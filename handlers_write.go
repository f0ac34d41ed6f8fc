package decor

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ducdoan1806/decor-be/sheets"
)

type contactRequest struct {
	Name        string `json:"name" form:"name"`
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	Message     string `json:"message" form:"message"`
}

// handleContactCreate persists a public contact submission and then fires
// the sheets notifier. The notifier call comes strictly after a successful
// insert and cannot fail the response: by the time it runs, the submission
// has already succeeded.
func (a *App) handleContactCreate(c echo.Context) error {
	if !a.submitLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many submissions, try again later")
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	msg := &ContactMessage{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Message:     req.Message,
	}
	if err := a.Store.CreateContactMessage(msg); err != nil {
		return err
	}

	createdAt, _ := time.Parse(time.RFC3339, msg.CreatedAt)
	a.Notifier.ContactCreated(c.Request().Context(), sheets.Message{
		ID:          msg.ID,
		Name:        msg.Name,
		PhoneNumber: msg.PhoneNumber,
		Body:        msg.Message,
		CreatedAt:   createdAt,
	})

	return c.JSON(http.StatusCreated, msg)
}

type commentRequest struct {
	Post      int64  `json:"post" form:"post"`
	UserName  string `json:"user_name" form:"user_name"`
	UserEmail string `json:"user_email" form:"user_email"`
	Comment   string `json:"comment" form:"comment"`
}

func (a *App) handleBlogCommentCreate(c echo.Context) error {
	if !a.submitLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many submissions, try again later")
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	comment := &BlogComment{
		PostID:    req.Post,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		Comment:   req.Comment,
	}
	if err := a.Store.AddBlogComment(comment); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}
