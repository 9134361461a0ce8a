package dto

type AgregarServicioRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=120"`
}

type MarcarServicioRequest struct {
	Valor *bool `json:"valor" validate:"required"`
}

type ServicioResponse struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	Completado bool   `json:"completado"`
	Descartado bool   `json:"descartado"`
	Origen     string `json:"origen"`
	Orden      int    `json:"orden"`
}

type ChecklistResponse struct {
	EventoID  string             `json:"evento_id"`
	Progreso  int                `json:"progreso"`
	Servicios []ServicioResponse `json:"servicios"`
}
