package booking

import "github.com/jhoicas/Tiquetes-api/internal/domain/entity"

// AttributedCashier decide a qué cajero se atribuye una venta o devolución.
// Con cajero (o admin) de por medio es el propio actor; en autoservicio del cliente
// es el dueño del vuelo (staff_id), que puede ser nil.
func AttributedCashier(actor entity.Actor, flight *entity.Flight) *string {
	if actor.IsStaff() {
		id := actor.ID
		return &id
	}
	if flight == nil || flight.StaffID == nil {
		return nil
	}
	id := *flight.StaffID
	return &id
}
