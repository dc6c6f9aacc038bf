package presenter

import (
	"errors"

	"github.com/docapp/docapp/internal/client"
)

func alertText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return "Unknown error"
	}
	return err.Error()
}
