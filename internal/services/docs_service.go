package services

import (
	"bytes"
	"fmt"
	"strings"

	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the printable movement order for an approved booking.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	VehicleRepo repositories.VehicleRepository
	RequestID   string
}

func (s DocsService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{}
}

func (s DocsService) vehicles() repositories.VehicleRepository {
	if s.VehicleRepo.DB != nil {
		return s.VehicleRepo
	}
	return repositories.VehicleRepository{}
}

// GenerateMovementOrder builds the PDF and suggested file name. Only an
// Approved (or Returned) booking has a movement order.
func (s DocsService) GenerateMovementOrder(bookingID int64) ([]byte, string, error) {
	b, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}

	switch models.ProjectStatus(b) {
	case models.StatusApproved, models.StatusReturned:
	default:
		return nil, "", domain.StateError{Action: "movement_order", Msg: "booking belum disetujui"}
	}

	vehicleLabel := "-"
	if v, err := s.vehicles().GetByID(b.VehicleAssetID); err == nil {
		vehicleLabel = fmt.Sprintf("%s (%s)", v.AssetCode, v.PlateNumber)
	}

	utils.LogEvent(s.RequestID, "docs", "movement_order", fmt.Sprintf("booking_id=%d", bookingID))
	return buildMovementOrderPDF(b, vehicleLabel)
}

func buildMovementOrderPDF(b models.BookingApplication, vehicleLabel string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Movement Order", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "MOVEMENT ORDER")
	pdf.Ln(12)

	duration := utils.TripDuration{}
	if start, err := utils.ParseDateTimeFlexible(b.TripStart); err == nil {
		if end, err := utils.ParseDateTimeFlexible(b.TripEnd); err == nil {
			duration = utils.CalcTripDuration(start, end)
		}
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("No Booking     : #%d", b.ID),
		fmt.Sprintf("Pemohon        : %s (%s)", docSafe(b.RequestorName), docSafe(b.RamcoID)),
		fmt.Sprintf("Kontak         : %s", docSafe(b.Contact)),
		fmt.Sprintf("Tujuan         : %s", docSafe(b.Destination)),
		fmt.Sprintf("Keperluan      : %s", docSafe(b.Purpose)),
		fmt.Sprintf("Berangkat      : %s", docSafe(b.TripStart)),
		fmt.Sprintf("Kembali        : %s", docSafe(b.TripEnd)),
		fmt.Sprintf("Durasi         : %d hari %d jam", duration.Days, duration.Hours),
		fmt.Sprintf("Kendaraan      : %s", vehicleLabel),
		fmt.Sprintf("Penumpang      : %s", docSafe(b.Passengers)),
		fmt.Sprintf("Disetujui oleh : %s pada %s", docSafe(b.ApprovedBy), docSafe(b.ApprovedAt)),
	}
	if b.FleetcardID > 0 {
		lines = append(lines, fmt.Sprintf("Fleetcard      : #%d", b.FleetcardID))
	}
	if b.TouchNGoID > 0 {
		lines = append(lines, fmt.Sprintf("Kartu TNG      : #%d", b.TouchNGoID))
	}
	if strings.TrimSpace(b.SmartTagSerial) != "" {
		lines = append(lines, fmt.Sprintf("SmartTAG       : %s", b.SmartTagSerial))
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Catatan: movement order ini wajib dibawa selama perjalanan dan dikembalikan bersama kendaraan.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("movement-order-%d.pdf", b.ID)
	return buf.Bytes(), name, nil
}

func docSafe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
