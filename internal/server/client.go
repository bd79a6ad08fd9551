package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote imposition service.
type Client struct {
	impose *connect.Client[wrapperspb.BytesValue, wrapperspb.BytesValue]
}

// NewClient returns a client for the service at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		impose: connect.NewClient[wrapperspb.BytesValue, wrapperspb.BytesValue](
			httpClient,
			strings.TrimRight(baseURL, "/")+ImposeProcedure,
			opts...,
		),
	}
}

// Impose sends pdf and returns the booklet and its sheet count.
func (c *Client) Impose(ctx context.Context, pdf []byte) ([]byte, int, error) {
	res, err := c.impose.CallUnary(ctx, connect.NewRequest(wrapperspb.Bytes(pdf)))
	if err != nil {
		return nil, 0, err
	}
	sheets, err := strconv.Atoi(res.Header().Get(SheetCountHeader))
	if err != nil {
		return nil, 0, fmt.Errorf("bad %s header: %w", SheetCountHeader, err)
	}
	return res.Msg.GetValue(), sheets, nil
}
