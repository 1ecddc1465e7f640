package handlers

import (
	"net/http"
	"net/url"

	apperrors "github.com/orion-ad/guardian/internal/pkg/errors"
	"github.com/orion-ad/guardian/internal/pkg/utils"
	"github.com/orion-ad/guardian/internal/view"
)

// respondError writes err as a JSON error, classifying backend failures
func respondError(w http.ResponseWriter, err error) {
	utils.WriteError(w, apperrors.FromBackend(err))
}

// redirectToTab sends the browser back to the dashboard after a form post
func redirectToTab(w http.ResponseWriter, r *http.Request, tab string) {
	q := url.Values{}
	q.Set("tab", view.NormalizeTab(tab))
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// errorText is the operator-facing text for an export or action failure
func errorText(err error) string {
	if appErr := apperrors.FromBackend(err); appErr != nil {
		return appErr.Message
	}
	return ""
}
