package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/image_converter/internal/codec"
	"github.com/Vovarama1992/image_converter/internal/convert"
	"github.com/Vovarama1992/image_converter/internal/ocr"
	"github.com/Vovarama1992/image_converter/internal/storage"
	"github.com/Vovarama1992/image_converter/internal/upload"
)

const (
	serviceName    = "image_converter"
	fileField      = "files"
	releaseTimeout = 30 * time.Second
)

type Notifier interface {
	Notify(ctx context.Context, err error, details string) error
}

type Options struct {
	MaxUploadSize  int64
	RequestTimeout time.Duration
}

type ConvertHandler struct {
	pipeline *convert.Pipeline
	ocr      *ocr.Service
	store    storage.Store
	notifier Notifier
	opts     Options
	log      *logger.ZapLogger
}

func NewConvertHandler(
	pipeline *convert.Pipeline,
	ocrService *ocr.Service,
	store storage.Store,
	notifier Notifier,
	opts Options,
	log *logger.ZapLogger,
) *ConvertHandler {
	return &ConvertHandler{
		pipeline: pipeline,
		ocr:      ocrService,
		store:    store,
		notifier: notifier,
		opts:     opts,
		log:      log,
	}
}

// POST /convert
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	batch := upload.NewBatch(h.store)
	defer h.release(r, batch)

	form, ok := h.intake(ctx, w, r, batch)
	if !ok {
		return
	}
	format, ok := h.parseFormat(w, form.Format)
	if !ok {
		return
	}

	files := batch.Files()
	if len(files) > 1 {
		http.Error(w, "Only one file allowed, use /convert-zip", http.StatusBadRequest)
		return
	}

	art, err := h.pipeline.ConvertSingle(ctx, batch, files[0], format)
	if err != nil {
		h.logError("single conversion failed", batch, err)
		http.Error(w, "Conversion failed", http.StatusInternalServerError)
		return
	}

	rc, err := batch.Open(ctx, art.Key)
	if err != nil {
		h.logError("open converted file", batch, err)
		http.Error(w, "Conversion failed", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", attachment("converted"+format.Ext()))
	w.Header().Set("Content-Length", strconv.FormatInt(art.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		// клиент отвалился — чистка всё равно пройдёт в release
		h.logWarn("send converted file", batch, err)
	}
}

// POST /convert-zip
func (h *ConvertHandler) ConvertZip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	batch := upload.NewBatch(h.store)
	defer h.release(r, batch)

	form, ok := h.intake(ctx, w, r, batch)
	if !ok {
		return
	}
	format, ok := h.parseFormat(w, form.Format)
	if !ok {
		return
	}

	zr := newZipResponse(w)
	n, err := h.pipeline.ConvertBatch(ctx, batch, format, zr)
	if err == nil {
		return
	}

	if !zr.Committed() {
		if convert.IsValidation(err) {
			msg := "Unsupported format"
			if errors.Is(err, convert.ErrNoFiles) {
				msg = "No files uploaded"
			}
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		h.logError("batch conversion failed", batch, err)
		http.Error(w, "Conversion failed", http.StatusInternalServerError)
		return
	}

	// заголовки и часть архива уже ушли: откатить нельзя, только оборвать
	zr.Abort(err)
	if zr.ClientGone() || errors.Is(err, context.Canceled) {
		h.logWarn(fmt.Sprintf("client gone after %d entries", n), batch, err)
		return
	}
	h.logError(fmt.Sprintf("batch aborted after %d entries", n), batch, err)
	details := fmt.Sprintf("batch %s: %d of %d files streamed before failure", batch.ID, n, batch.Len())
	if nerr := h.notifier.Notify(ctx, err, details); nerr != nil {
		h.logWarn("notify admin", batch, nerr)
	}
}

type extractResponse struct {
	Results []ocr.Result `json:"results"`
}

// POST /extract-text
func (h *ConvertHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	batch := upload.NewBatch(h.store)
	defer h.release(r, batch)

	if _, ok := h.intake(ctx, w, r, batch); !ok {
		return
	}

	files := batch.Files()
	sources := make([]ocr.Source, len(files))
	for i, f := range files {
		sources[i] = ocr.Source{Name: f.Name, Open: readAll(batch, f.Key)}
	}

	results, err := h.ocr.ExtractText(ctx, sources)
	if err != nil {
		h.logError("text extraction interrupted", batch, err)
		http.Error(w, "Text extraction failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(extractResponse{Results: results}); err != nil {
		h.logWarn("send extracted text", batch, err)
	}
}

// GET /
func (h *ConvertHandler) Page(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

func (h *ConvertHandler) intake(ctx context.Context, w http.ResponseWriter, r *http.Request, batch *upload.Batch) (upload.Form, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadSize)

	mr, err := r.MultipartReader()
	switch {
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		// без multipart-тела файлов нет
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return upload.Form{}, false
	case err != nil:
		http.Error(w, "invalid multipart", http.StatusBadRequest)
		return upload.Form{}, false
	}

	form, err := upload.ReadMultipart(ctx, mr, batch, fileField)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return form, true
	case errors.Is(err, upload.ErrNoFiles):
		http.Error(w, "No files uploaded", http.StatusBadRequest)
	case errors.As(err, &tooLarge):
		http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
	default:
		h.logWarn("read upload", batch, err)
		http.Error(w, "invalid multipart", http.StatusBadRequest)
	}
	return upload.Form{}, false
}

func (h *ConvertHandler) parseFormat(w http.ResponseWriter, raw string) (codec.Format, bool) {
	format, err := codec.ParseFormat(raw)
	if err != nil {
		http.Error(w, "Unsupported format", http.StatusBadRequest)
		return "", false
	}
	return format, true
}

func (h *ConvertHandler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.opts.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.opts.RequestTimeout)
}

// release не зависит от контекста запроса: отмена или отвал клиента не
// должны оставлять временные файлы.
func (h *ConvertHandler) release(r *http.Request, batch *upload.Batch) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), releaseTimeout)
	defer cancel()
	if err := batch.Release(ctx); err != nil {
		h.logWarn("temp cleanup failed", batch, err)
	}
}

func (h *ConvertHandler) logError(msg string, batch *upload.Batch, err error) {
	h.log.Log(logger.LogEntry{Level: "error", Message: msg + " [" + batch.ID + "]", Error: err, Service: serviceName})
}

func (h *ConvertHandler) logWarn(msg string, batch *upload.Batch, err error) {
	h.log.Log(logger.LogEntry{Level: "warn", Message: msg + " [" + batch.ID + "]", Error: err, Service: serviceName})
}

func readAll(batch *upload.Batch, key string) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		rc, err := batch.Open(ctx, key)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}
