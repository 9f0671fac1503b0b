package cont

import "context"

type ctxKey string

const userKey ctxKey = "user"

// PutUser stores the authenticated API user name in the request context.
func PutUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

func GetUser(ctx context.Context) string {
	username, _ := ctx.Value(userKey).(string)
	return username
}
