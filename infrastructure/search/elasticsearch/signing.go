package elasticsearch

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

const signingService = "es"

// SigningTransport signs every request with SigV4 for an AWS managed search domain
type SigningTransport struct {
	next        http.RoundTripper
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	now         func() time.Time
}

// NewSigningTransport wraps next. A nil next uses http.DefaultTransport.
func NewSigningTransport(next http.RoundTripper, credentials aws.CredentialsProvider, region string) *SigningTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &SigningTransport{
		next:        next,
		credentials: credentials,
		signer:      v4.NewSigner(),
		region:      region,
		now:         time.Now,
	}
}

// RoundTrip implements http.RoundTripper
func (t *SigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	creds, err := t.credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve credentials: %w", err)
	}

	// The body is hashed and must be replayable afterwards
	signed := req.Clone(ctx)
	var payload []byte
	if req.Body != nil && req.Body != http.NoBody {
		payload, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		signed.Body = io.NopCloser(bytes.NewReader(payload))
		signed.ContentLength = int64(len(payload))
	}

	sum := sha256.Sum256(payload)
	if err := t.signer.SignHTTP(ctx, creds, signed, hex.EncodeToString(sum[:]), signingService, t.region, t.now()); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	return t.next.RoundTrip(signed)
}
