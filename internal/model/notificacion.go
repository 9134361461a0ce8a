package model

// Tipos de notificación enviados al cliente del evento después de cada
// movimiento confirmado.
const (
	NotifPagoRegistrado    = "pago_registrado"
	NotifPagoAprobado      = "pago_aprobado"
	NotifPagoRechazado     = "pago_rechazado"
	NotifEventoCompletado  = "evento_completado"
	NotifPagoDanosRecibido = "pago_danos_recibido"
)
