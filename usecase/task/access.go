package task

import "github.com/shahzaib1233/todo-app-phase-2/domain"

// Scope pairs the authenticated subject with the user id addressed by the request.
type Scope struct {
	Subject string
	UserID  string
}

// Authorize allows a request only when it addresses the caller's own tasks.
// The token subject is trusted as-is; the user store is not consulted.
func Authorize(scope Scope) error {
	if scope.Subject == "" || scope.Subject != scope.UserID {
		return domain.ErrForbidden
	}
	return nil
}
