/*
Package trustsdk is a Go client for the trust service.

# Sessions live in cookies

The service never returns tokens in response bodies. Access and refresh
tokens, and the guest identity of a caller who has not signed in, travel in
HttpOnly cookies. A Client therefore behaves like a single browser: it keeps
a cookie jar and represents exactly one caller.

	c := trustsdk.NewClient("https://trust.example.com")

	// A guest can build a cart before signing in.
	_, err := c.AddCartItem(ctx, "sku-42", 1)

	// Signing in moves the guest cart to the account.
	session, err := c.Login(ctx, "alice", password)
	fmt.Println(session.MigratedItems)

# CSRF tokens

Mutating requests from a signed-in caller must echo a CSRF token. Fetch one
with CSRFToken; the client caches it and sends it on every POST, PUT, PATCH
and DELETE until the next sign-in or logout:

	if _, err := c.CSRFToken(ctx); err != nil {
		return err
	}
	err = c.RemoveCartItem(ctx, "sku-42")

With WithCSRFRetry the client does this on demand: a mutating request that
fails with 403 fetches a fresh token and is sent one more time.

# Expired access tokens

Me reports TokenExpired when the access cookie has expired. Call Refresh to
rotate the pair. ErrInvalidRefreshToken means the session is over and the
server has cleared the cookies.

# Errors

Every non-2xx response becomes an *APIError. Compare with errors.Is against
the predefined values, which match on status and code:

	if errors.Is(err, trustsdk.ErrForbidden) {
		// missing or stale CSRF token
	}
*/
package trustsdk
