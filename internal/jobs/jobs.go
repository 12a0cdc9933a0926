package jobs

import (
	"fmt"
	"time"

	intconfig "fleet-backend/internal/config"
	intdb "fleet-backend/internal/db"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/utils"

	"github.com/robfig/cron/v3"
)

const (
	scheduleOverdueReport = "0 1 * * *"
	scheduleDraftPurge    = "30 1 * * *"

	draftRetention = 30 * 24 * time.Hour
)

// Runner owns the nightly maintenance jobs.
type Runner struct {
	cron *cron.Cron

	BookingRepo repositories.BookingRepository
	DraftRepo   repositories.DraftRepository
}

// NewRunner registers the jobs. Call Start to begin scheduling.
func NewRunner() *Runner {
	r := &Runner{cron: cron.New(cron.WithLocation(time.Local))}

	_, _ = r.cron.AddFunc(scheduleOverdueReport, r.ReportOverdueReturns)
	_, _ = r.cron.AddFunc(scheduleDraftPurge, r.PurgeStaleDrafts)

	return r
}

func (r *Runner) Start() { r.cron.Start() }

// Stop waits for a running job to finish before returning.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// ReportOverdueReturns logs approved bookings whose trip has ended but whose
// vehicle has not been returned yet, so admins can chase them up.
func (r *Runner) ReportOverdueReturns() {
	cutoff := utils.FormatDateTime(utils.NowLocal())

	list, err := r.BookingRepo.ListOverdue(cutoff)
	if err != nil {
		utils.LogEvent("", "jobs", "overdue_report", "gagal mengambil data: "+err.Error())
		return
	}

	for _, b := range list {
		utils.LogEvent("", "jobs", "overdue_report",
			fmt.Sprintf("booking_id=%d ramco=%s trip_end=%s belum dikembalikan", b.ID, b.RamcoID, b.TripEnd))
	}
	utils.LogEvent("", "jobs", "overdue_report", fmt.Sprintf("total=%d", len(list)))
}

// PurgeStaleDrafts removes saved drafts untouched for longer than the
// retention window.
func (r *Runner) PurgeStaleDrafts() {
	if !intdb.HasTable(intconfig.DB, "booking_drafts") {
		utils.LogEvent("", "jobs", "draft_purge", "tabel booking_drafts belum ada, lewati")
		return
	}
	cutoff := utils.FormatDateTime(utils.NowLocal().Add(-draftRetention))

	n, err := r.DraftRepo.PurgeStale(cutoff)
	if err != nil {
		utils.LogEvent("", "jobs", "draft_purge", "gagal menghapus draft: "+err.Error())
		return
	}
	utils.LogEvent("", "jobs", "draft_purge", fmt.Sprintf("deleted=%d cutoff=%s", n, cutoff))
}
