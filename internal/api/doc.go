// Package api contains the HTTP handlers, request/response models and
// error mapping for the REST surface. Handlers stay thin: they decode
// and validate the request, call a service, and translate the result
// into an HTTP response.
package api
