package bootstrap

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// InitFirebase returns the auth client used to verify ID tokens. The
// project id is pinned when set so tokens are checked against the same
// project as Firestore, including under the auth emulator.
func InitFirebase(ctx context.Context, projectID string) (*auth.Client, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf)
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}
