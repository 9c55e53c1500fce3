package provider

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/craftly/craftd/internal/resilience/apperr"
)

const licensingServiceName = "licensing"

// verifyMethod is the full gRPC method name of the licensing verifier.
// The service speaks a schemaless struct-based contract, so no generated
// stubs are needed on this side.
const verifyMethod = "/craftly.licensing.v1.LicenseService/Verify"

// LicensingClient verifies content licensing over gRPC.
type LicensingClient struct {
	endpoint string
	conn     *grpc.ClientConn
}

// NewLicensingClient dials the licensing service. TLS is inferred from
// the endpoint scheme or a :443 suffix.
func NewLicensingClient(ctx context.Context, endpoint string) (*LicensingClient, error) {
	target := endpoint
	var opts []grpc.DialOption

	if strings.HasPrefix(endpoint, "https://") || strings.HasSuffix(endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "https://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "http://")
	}

	opts = append(opts, grpc.WithBlock()) // Wait for connection

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial licensing endpoint %s: %w", target, err)
	}

	return &LicensingClient{endpoint: endpoint, conn: conn}, nil
}

func (c *LicensingClient) Name() string { return licensingServiceName }

// Verify asks the licensing service whether the asset's content is clear
// to publish. gRPC status errors are mapped onto the taxonomy, including
// any RetryInfo backoff hint the service attaches.
func (c *LicensingClient) Verify(ctx context.Context, assetID string, content string) (LicenseResult, error) {
	in, err := structpb.NewStruct(map[string]any{
		"asset_id": assetID,
		"content":  content,
	})
	if err != nil {
		return LicenseResult{}, apperr.Internal(fmt.Errorf("build verify request: %w", err))
	}

	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, verifyMethod, in, out); err != nil {
		return LicenseResult{}, apperr.FromGRPC(licensingServiceName, err)
	}

	fields := out.AsMap()
	res := LicenseResult{}
	if cleared, ok := fields["cleared"].(bool); ok {
		res.Cleared = cleared
	}
	if reason, ok := fields["reason"].(string); ok {
		res.Reason = reason
	}
	return res, nil
}

// Close cleans up resources.
func (c *LicensingClient) Close() error {
	return c.conn.Close()
}
