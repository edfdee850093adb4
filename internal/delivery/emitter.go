package delivery

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	zipFilename    = "converted_images.zip"
	errTrailerName = "X-Conversion-Error"
)

// zipResponse выставляет заголовки архива при первой записи тела. До неё
// ответ ещё можно заменить на обычную ошибку.
type zipResponse struct {
	w         http.ResponseWriter
	rc        *http.ResponseController
	committed bool
	writeErr  error
}

func newZipResponse(w http.ResponseWriter) *zipResponse {
	return &zipResponse{w: w, rc: http.NewResponseController(w)}
}

func (z *zipResponse) Write(p []byte) (int, error) {
	if !z.committed {
		h := z.w.Header()
		h.Set("Content-Type", "application/zip")
		h.Set("Content-Disposition", "attachment; filename="+zipFilename)
		h.Set("Trailer", errTrailerName)
		z.w.WriteHeader(http.StatusOK)
		z.committed = true
	}
	n, err := z.w.Write(p)
	if err != nil {
		z.writeErr = err
		return n, err
	}
	// отдаём клиенту сразу, не копим архив в буфере сервера
	_ = z.rc.Flush()
	return n, nil
}

func (z *zipResponse) Committed() bool { return z.committed }

// ClientGone — запись в ответ уже падала, клиент отключился.
func (z *zipResponse) ClientGone() bool { return z.writeErr != nil }

// Abort помечает уже начатый поток как оборванный. Центрального каталога в
// архиве нет, а трейлер объясняет почему.
func (z *zipResponse) Abort(err error) {
	msg := strings.NewReplacer("\r", " ", "\n", " ").Replace(err.Error())
	z.w.Header().Set(errTrailerName, msg)
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
