package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// PathInt64 разбирает числовой параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// ParseDate разбирает дату YYYY-MM-DD в локальной зоне сервера
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, s, time.Local)
}
