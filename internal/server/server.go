// Package server exposes imposition as a connect RPC that takes a PDF and
// returns the booklet PDF.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/t12nslookup/hexapdf-nup/internal/imposition"
	"github.com/t12nslookup/hexapdf-nup/internal/layout"
	"github.com/t12nslookup/hexapdf-nup/internal/logging"
	"github.com/t12nslookup/hexapdf-nup/internal/pdfdoc"
)

const (
	// ImposeProcedure is the full RPC path of the Impose method.
	ImposeProcedure = "/nup.v1.ImpositionService/Impose"

	// SheetCountHeader carries the number of sheets in the response.
	SheetCountHeader = "Nup-Sheet-Count"
)

// Service imposes uploaded PDFs with a fixed layout.
type Service struct {
	layout   layout.Layout
	password string
}

// NewService returns a service using l. password unlocks encrypted input
// and may be empty.
func NewService(l layout.Layout, password string) (*Service, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &Service{layout: l, password: password}, nil
}

// Impose reads the PDF in the request, lays it out as a booklet and returns
// the result.
func (s *Service) Impose(
	ctx context.Context,
	req *connect.Request[wrapperspb.BytesValue],
) (*connect.Response[wrapperspb.BytesValue], error) {
	start := time.Now()
	reqID := uuid.NewString()
	pdfBytes := req.Msg.GetValue()

	logging.Info().
		Add(logging.RequestID(reqID)).
		Add(logging.Bytes("in_bytes", len(pdfBytes))).
		Msg("impose request")

	if len(pdfBytes) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("PDF file is empty"))
	}

	doc, err := pdfdoc.Read(bytes.NewReader(pdfBytes), s.password)
	if err != nil {
		logging.Warn().Add(logging.RequestID(reqID)).Add(logging.ErrorField(err)).Msg("unreadable input")
		if errors.Is(err, pdfcpu.ErrWrongPassword) {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("wrong PDF password"))
		}
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	sheets, err := imposition.Run(doc, s.layout)
	if err != nil {
		logging.Error().Add(logging.RequestID(reqID)).Add(logging.ErrorField(err)).Msg("imposition failed")
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, connect.NewError(connect.CodeCanceled, err)
	}

	var out bytes.Buffer
	if err := doc.Write(&out); err != nil {
		logging.Error().Add(logging.RequestID(reqID)).Add(logging.ErrorField(err)).Msg("write failed")
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	logging.Info().
		Add(logging.RequestID(reqID)).
		Add(logging.Pages(doc.PageCount())).
		Add(logging.Sheets(sheets)).
		Add(logging.Bytes("out_bytes", out.Len())).
		Add(logging.Duration(time.Since(start))).
		Msg("impose done")

	res := connect.NewResponse(wrapperspb.Bytes(out.Bytes()))
	res.Header().Set(SheetCountHeader, strconv.Itoa(sheets))
	return res, nil
}

// Handler returns the mount path and handler of the Impose RPC.
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	return ImposeProcedure, connect.NewUnaryHandler(ImposeProcedure, s.Impose, opts...)
}

// NewMux mounts the service behind the CORS middleware.
func NewMux(s *Service) *http.ServeMux {
	mux := http.NewServeMux()
	path, handler := s.Handler()
	mux.Handle(path, corsMiddleware(handler))
	return mux
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version")
		w.Header().Set("Access-Control-Expose-Headers", SheetCountHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
