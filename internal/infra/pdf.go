package infra

// pdf.go — assignment voucher generation using go-pdf/fpdf.
// Produces an A5 landscape comprobante for a client-weapon assignment:
//   - Group code header
//   - Client name, document, category
//   - Weapon model, caliber, serial (or "pendiente")
//   - Price and quantity
// The document streams to the caller; nothing touches disk.

import (
	"fmt"
	"io"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateComprobantePDF writes the assignment voucher for a reserva to w.
// The reserva must come with Cliente, ArmaModelo, and ArmaSerie preloaded.
func GenerateComprobantePDF(reserva *model.ReservaClienteArma, codigoGrupo string, w io.Writer) error {
	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 28

	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 9, "Comprobante de Asignación", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Grupo de importación "+codigoGrupo, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(14, pdf.GetY(), pageW-14, pdf.GetY())
	pdf.Ln(4)

	labelW := contentW * 0.32
	valueW := contentW * 0.68

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(valueW, 6, value, "", 1, "L", false, 0, "")
	}

	if reserva.Cliente != nil {
		row("Cliente:", reserva.Cliente.Nombre)
		row("Documento:", reserva.Cliente.Documento)
		row("Categoría:", reserva.Cliente.Categoria)
	}
	pdf.Ln(2)

	if reserva.ArmaModelo != nil {
		row("Arma:", reserva.ArmaModelo.Marca+" "+reserva.ArmaModelo.Nombre)
		row("Calibre:", reserva.ArmaModelo.Calibre)
	}
	serie := "pendiente de asignación"
	if reserva.ArmaSerie != nil {
		serie = reserva.ArmaSerie.NumeroSerie
	}
	row("Número de serie:", serie)
	pdf.Ln(2)

	row("Cantidad:", fmt.Sprintf("%d", reserva.Cantidad))
	row("Precio:", "$"+reserva.Precio.StringFixed(2))
	row("Fecha:", reserva.CreatedAt.Format("02/01/2006 15:04"))

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5,
		"Documento interno de control. Referencia: "+reserva.ID.String(),
		"", 1, "C", false, 0, "")

	return pdf.Output(w)
}
