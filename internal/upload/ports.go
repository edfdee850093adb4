package upload

import "errors"

// ErrNoFiles — в запросе нет ни одного файла.
var ErrNoFiles = errors.New("no files uploaded")

// File — загруженный файл, лежащий во временном хранилище.
type File struct {
	Key  string // временный хэндл в storage.Store
	Name string // оригинальное имя от клиента
	Size int64
}
