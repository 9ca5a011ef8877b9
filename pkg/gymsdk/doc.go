/*
Package gymsdk is a client for the gymgate HTTP API and the home of its wire
types. The server encodes these same types, so a response decoded here is
exactly what the handler wrote.

# Client

Public endpoints need no session:

	c := gymsdk.NewClient("https://gym.example.com")
	health, err := c.GetReadiness(ctx)
	jwks, err := c.GetJWKS(ctx)

Everything under /api needs the session token a member received at sign-in:

	owner := c.WithSessionToken(token)
	res, err := owner.GenerateInvites(ctx, gymsdk.GenerateInvitesRequest{Quantity: 10})

# Errors

Non-2xx responses come back as *APIError carrying the HTTP status and the
server's error code:

	var apiErr *gymsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
		// not an owner
	}
*/
package gymsdk
