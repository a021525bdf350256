package entity

import "time"

// Motivos de devolución ofrecidos en caja.
const (
	ReturnReasonPassengerRequest = "passenger_request"
	ReturnReasonFlightCancelled  = "flight_cancelled"
	ReturnReasonPassengerIllness = "passenger_illness"
	ReturnReasonScheduleChange   = "schedule_change"
	ReturnReasonOther            = "other"
)

// TicketReturn registro de auditoría de una devolución (a lo sumo uno por tiquete).
type TicketReturn struct {
	ID          string
	TicketID    string
	CashierID   *string
	Reason      string
	Explanation string
	ReturnDate  time.Time
}

// ValidReturnReason valida un motivo de devolución de caja.
func ValidReturnReason(r string) bool {
	switch r {
	case ReturnReasonPassengerRequest, ReturnReasonFlightCancelled, ReturnReasonPassengerIllness,
		ReturnReasonScheduleChange, ReturnReasonOther:
		return true
	}
	return false
}
