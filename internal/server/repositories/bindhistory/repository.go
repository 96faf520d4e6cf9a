// Package bindhistory keeps an append-only audit log of bind, unbind and
// register-and-bind actions.
package bindhistory

import "context"

// Actions recorded in the log.
const (
	ActionBind            = "bind"
	ActionRegisterAndBind = "register_and_bind"
	ActionUnbind          = "unbind"
)

type Repository interface {
	Append(ctx context.Context, deviceID, userID, action string) error
}
