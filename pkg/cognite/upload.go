package cognite

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// UploadStream sends data as the body of a PUT to a pre-signed url,
// without authentication (the URL itself carries authorization) and
// without the retry middleware, per §4.5:
//
//  1. Build a PUT request with Accept: */* and no auth.
//  2. If mimeType is non-empty, set both Content-Type and
//     X-Upload-Content-Type.
//  3. If chunked, attach data verbatim as the body — with Content-Length
//     when knownSize >= 0, or chunked transfer encoding otherwise.
//  4. If not chunked, buffer the entire stream into memory first (callers
//     are warned of the cost) and send a fixed-size body; a read failure
//     while buffering surfaces as StreamCollection.
//
// A successful response's body is discarded; a non-2xx status is reported
// as a Http-kind Error carrying the status code in Code.
func UploadStream(ctx context.Context, url, mimeType string, data io.Reader, chunked bool, knownSize int64) error {
	httpClient := cleanhttp.DefaultClient()

	body := data
	contentLength := knownSize

	if !chunked {
		buffered, err := io.ReadAll(data)
		if err != nil {
			return newPlainError(KindStreamCollection, "buffering upload stream", err)
		}

		body = bytes.NewReader(buffered)
		contentLength = int64(len(buffered))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return newPlainError(KindMiddlewareFailure, "building upload request", err)
	}

	req.Header.Set("Accept", "*/*")

	if mimeType != "" {
		req.Header.Set("Content-Type", mimeType)
		req.Header.Set("X-Upload-Content-Type", mimeType)
	}

	if contentLength >= 0 {
		req.ContentLength = contentLength
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return newPlainError(KindTransportFailure, "uploading stream", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)

		return &Error{Kind: KindHTTP, Code: resp.StatusCode, Message: string(respBody)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
