package apperr

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromGRPC maps a gRPC call error onto the taxonomy. RetryInfo details,
// when the upstream attaches them, become the RetryAfter hint.
func FromGRPC(service string, err error) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return ExternalAPI(service, err)
	}

	var ae *Error
	switch st.Code() {
	case codes.InvalidArgument:
		ae = Validation(st.Message())
	case codes.NotFound:
		ae = NotFound(service + " resource")
	case codes.Unauthenticated:
		ae = Unauthorized(st.Message())
	case codes.PermissionDenied:
		ae = Forbidden(st.Message())
	case codes.ResourceExhausted:
		ae = RateLimit(0)
	case codes.Unavailable:
		ae = Unavailable(service, err)
	case codes.DeadlineExceeded:
		ae = ExternalAPI(service, err)
	default:
		ae = ExternalAPI(service, err)
	}

	for _, d := range st.Details() {
		if ri, ok := d.(*errdetails.RetryInfo); ok && ri.GetRetryDelay() != nil {
			ae.RetryAfter = ri.GetRetryDelay().AsDuration()
			ae.Retryable = true
		}
	}

	ae.cause = err
	return ae.WithMeta("grpc_code", st.Code().String())
}
