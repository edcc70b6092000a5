package domain

// TimestampField — имя nullable-поля с отметкой времени жизненного цикла.
type TimestampField string

const (
	FieldRequestAt   TimestampField = "request_at"
	FieldApprovedAt  TimestampField = "approved_at"
	FieldPaidAt      TimestampField = "paid_at"
	FieldShippedAt   TimestampField = "shipped_at"
	FieldDeliveredAt TimestampField = "delivered_at"
	FieldAttendedAt  TimestampField = "attended_at"
	FieldCancelledAt TimestampField = "cancelled_at"
	FieldReturnedAt  TimestampField = "returned_at"
	FieldRefundedAt  TimestampField = "refunded_at"
)

// Sequence описывает упорядоченный жизненный цикл сущности со статусами.
// Полное перечисление задаёт порядок для определения направления перехода,
// основной поток — подпоследовательность «счастливого пути», терминальные
// статусы достижимы из любой точки и в основной поток не входят.
type Sequence struct {
	full      []string
	main      []string
	fullIndex map[string]int
	mainIndex map[string]int
	fields    map[string]TimestampField
	terminal  []TimestampField
}

// NewSequence строит таблицу жизненного цикла: full — полное перечисление,
// main — его префикс-подпоследовательность основного потока, fields — поле
// отметки времени для каждого статуса. Статусы full вне main считаются
// терминальной веткой.
func NewSequence(full, main []string, fields map[string]TimestampField) Sequence {
	seq := Sequence{
		full:      full,
		main:      main,
		fullIndex: make(map[string]int, len(full)),
		mainIndex: make(map[string]int, len(main)),
		fields:    fields,
	}
	for i, status := range full {
		seq.fullIndex[status] = i
	}
	for i, status := range main {
		seq.mainIndex[status] = i
	}
	for _, status := range full {
		if _, ok := seq.mainIndex[status]; !ok {
			seq.terminal = append(seq.terminal, fields[status])
		}
	}
	return seq
}

// Contains сообщает, входит ли статус в полное перечисление.
func (s Sequence) Contains(status string) bool {
	_, ok := s.fullIndex[status]
	return ok
}

// MainIndex возвращает позицию статуса в основном потоке. Второй результат
// false — явный исход «не в основном потоке» (терминальная ветка), вместо
// сигнального значения -1.
func (s Sequence) MainIndex(status string) (int, bool) {
	idx, ok := s.mainIndex[status]
	return idx, ok
}

// Field возвращает поле отметки времени для статуса.
func (s Sequence) Field(status string) TimestampField {
	return s.fields[status]
}

// Statuses возвращает полное перечисление статусов в порядке следования.
func (s Sequence) Statuses() []string {
	result := make([]string, len(s.full))
	copy(result, s.full)
	return result
}

// StatusPatch — точный набор записей полей, необходимых для перехода статуса.
// Stamp проставляет «сейчас» только в ещё пустые поля, Clear обнуляет поля
// безусловно.
type StatusPatch struct {
	Status string
	Stamp  []TimestampField
	Clear  []TimestampField
}

// Resolve вычисляет набор записей полей для перехода current → next.
//
// Движение вперёд по основному потоку дозаполняет отметки пропущенных
// промежуточных статусов; собственное поле next проставляется всегда,
// независимо от направления. Движение назад обнуляет отметки всех статусов
// основного потока строго после next и, если next лежит в основном потоке,
// безусловно снимает все терминальные отметки. Если хотя бы один из концов
// перехода — терминальная ветка, дозаполнение и обнуление пропускаются:
// терминальные переходы не переписывают историю основного потока.
func (s Sequence) Resolve(current, next string) (StatusPatch, error) {
	if !s.Contains(current) || !s.Contains(next) {
		return StatusPatch{}, ErrUnknownStatus
	}

	patch := StatusPatch{Status: next}
	if current == next {
		return patch, nil
	}

	curFull := s.fullIndex[current]
	nextFull := s.fullIndex[next]
	curMain, curInMain := s.MainIndex(current)
	nextMain, nextInMain := s.MainIndex(next)

	if nextFull > curFull && curInMain && nextInMain {
		for i := curMain + 1; i <= nextMain; i++ {
			patch.Stamp = append(patch.Stamp, s.fields[s.main[i]])
		}
	}

	own := s.fields[next]
	if !containsField(patch.Stamp, own) {
		patch.Stamp = append(patch.Stamp, own)
	}

	if nextFull < curFull && nextInMain {
		for i := nextMain + 1; i < len(s.main); i++ {
			patch.Clear = append(patch.Clear, s.fields[s.main[i]])
		}
		patch.Clear = append(patch.Clear, s.terminal...)
	}

	return patch, nil
}

func containsField(fields []TimestampField, field TimestampField) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
