package create_appointment

import (
	"hash/fnv"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// scheduleLockKeys ключи advisory-блокировок записи: расписание филиала на дату
// и расписание клиента на дату (клиент может записываться в разные филиалы)
func scheduleLockKeys(branchID int64, email string, date time.Time) []int64 {
	day := date.Format(domain.DateFormat)
	return []int64{
		lockKey("branch", strconv.FormatInt(branchID, 10), day),
		lockKey("customer", domain.NormalizeEmail(email), day),
	}
}

func lockKey(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return int64(h.Sum64())
}
