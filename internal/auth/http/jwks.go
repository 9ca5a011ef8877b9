package http

import (
	"net/http"

	"github.com/aussiebroadwan/gymgate/pkg/gymsdk"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
)

// JWKSHandler publishes the session token verification keys.
//
//	@Summary		Get JWKS
//	@Description	Returns the Ed25519 public keys that verify session tokens, including keys that have stopped signing.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	gymsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, gymsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
