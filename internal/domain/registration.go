package domain

import "time"

// RegistrationStatus описывает жизненный цикл записи на мастер-класс.
type RegistrationStatus string

const (
	// RegistrationStatusPending — заявка подана, ждёт подтверждения.
	RegistrationStatusPending RegistrationStatus = "pending"
	// RegistrationStatusApproved — заявка подтверждена, место закреплено.
	RegistrationStatusApproved RegistrationStatus = "approved"
	// RegistrationStatusPaid — участие оплачено.
	RegistrationStatusPaid RegistrationStatus = "paid"
	// RegistrationStatusAttended — участник пришёл на мероприятие.
	RegistrationStatusAttended RegistrationStatus = "attended"
	// RegistrationStatusCancelled — запись отменена (терминальная ветка).
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	// RegistrationStatusRefunded — оплата возвращена (терминальная ветка).
	RegistrationStatusRefunded RegistrationStatus = "refunded"
)

// RegistrationLifecycle — таблица жизненного цикла записи, структурно
// аналогичная заказу: основной поток из четырёх статусов и две терминальные
// ветки.
var RegistrationLifecycle = NewSequence(
	[]string{
		string(RegistrationStatusPending),
		string(RegistrationStatusApproved),
		string(RegistrationStatusPaid),
		string(RegistrationStatusAttended),
		string(RegistrationStatusCancelled),
		string(RegistrationStatusRefunded),
	},
	[]string{
		string(RegistrationStatusPending),
		string(RegistrationStatusApproved),
		string(RegistrationStatusPaid),
		string(RegistrationStatusAttended),
	},
	map[string]TimestampField{
		string(RegistrationStatusPending):   FieldRequestAt,
		string(RegistrationStatusApproved):  FieldApprovedAt,
		string(RegistrationStatusPaid):      FieldPaidAt,
		string(RegistrationStatusAttended):  FieldAttendedAt,
		string(RegistrationStatusCancelled): FieldCancelledAt,
		string(RegistrationStatusRefunded):  FieldRefundedAt,
	},
)

// Registration — запись покупателя на мастер-класс.
type Registration struct {
	ID         string
	EventID    string
	CustomerID string
	Status     RegistrationStatus

	RequestAt   *time.Time
	ApprovedAt  *time.Time
	PaidAt      *time.Time
	AttendedAt  *time.Time
	CancelledAt *time.Time
	RefundedAt  *time.Time

	// AmountMinor — цена участия на момент записи.
	AmountMinor int64
	Currency    string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active сообщает, удерживает ли запись место (не отменена и не возвращена).
func (r *Registration) Active() bool {
	return r.Status != RegistrationStatusCancelled && r.Status != RegistrationStatusRefunded
}

// ApplyStatus выполняет переход статуса записи по таблице жизненного цикла.
func (r *Registration) ApplyStatus(next RegistrationStatus, now time.Time) error {
	patch, err := RegistrationLifecycle.Resolve(string(r.Status), string(next))
	if err != nil {
		return err
	}
	if r.Status == next {
		return nil
	}

	for _, field := range patch.Stamp {
		ref := r.stampRef(field)
		if ref != nil && *ref == nil {
			stamped := now
			*ref = &stamped
		}
	}
	for _, field := range patch.Clear {
		if ref := r.stampRef(field); ref != nil {
			*ref = nil
		}
	}

	r.Status = next
	r.UpdatedAt = now
	return nil
}

func (r *Registration) stampRef(field TimestampField) **time.Time {
	switch field {
	case FieldRequestAt:
		return &r.RequestAt
	case FieldApprovedAt:
		return &r.ApprovedAt
	case FieldPaidAt:
		return &r.PaidAt
	case FieldAttendedAt:
		return &r.AttendedAt
	case FieldCancelledAt:
		return &r.CancelledAt
	case FieldRefundedAt:
		return &r.RefundedAt
	default:
		return nil
	}
}
