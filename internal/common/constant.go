package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the caller's
// access token on owner-facing requests.
const AccessTokenHeaderName = "access_token"
