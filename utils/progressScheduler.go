package utils

import (
	"lms/database"
	courseModels "lms/models/course"
	"log"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeProgressScheduler sets up the nightly progress reconciliation job.
// Instructors publish and unpublish content during the day, which changes the
// denominator of everyone's progress; the job recounts so the Completed flag
// stays honest.
func InitializeProgressScheduler() {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	// Run daily at 2 AM
	c.AddFunc("0 2 * * *", func() {
		log.Println("[PROGRESS-SCHEDULER] Running daily progress reconciliation...")
		ReconcileCourseProgress()
	})

	c.Start()
	log.Println("[PROGRESS-SCHEDULER] Progress scheduler started - runs daily at 2 AM")
}

// ReconcileCourseProgress recounts completions for progress records touching
// courses whose content changed since yesterday
func ReconcileCourseProgress() {
	db := database.Database.Db
	since := now.BeginningOfDay().AddDate(0, 0, -1)

	var changedCourseIDs []uint
	if err := db.Model(&courseModels.CourseContent{}).
		Where("updated_at >= ?", since).
		Distinct().
		Pluck("course_id", &changedCourseIDs).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching changed courses: %v", err)
		return
	}

	if len(changedCourseIDs) == 0 {
		log.Println("[PROGRESS-SCHEDULER] No course content changed, nothing to reconcile")
		return
	}

	var progresses []courseModels.CourseProgress
	if err := db.Where("course_id IN ? AND is_deleted = ?", changedCourseIDs, false).Find(&progresses).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching progress records: %v", err)
		return
	}

	log.Printf("[PROGRESS-SCHEDULER] Reconciling %d progress records across %d courses", len(progresses), len(changedCourseIDs))

	for _, p := range progresses {
		reconcileOne(p)
	}
}

func reconcileOne(p courseModels.CourseProgress) {
	db := database.Database.Db

	var totalContent int64
	var completedContent int64

	db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_published = ? AND is_deleted = ?", p.CourseID, true, false).
		Count(&totalContent)
	db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", p.UserID, p.CourseID, false).
		Count(&completedContent)

	p.CompletedContents = int(completedContent)
	p.TotalContents = int(totalContent)

	if totalContent > 0 {
		p.Progress = float64(completedContent) / float64(totalContent) * 100
	} else {
		p.Progress = 0
	}

	completed := totalContent > 0 && completedContent >= totalContent
	if completed && !p.Completed {
		t := time.Now()
		p.CompletedAt = &t
	}
	if !completed {
		p.CompletedAt = nil
	}
	p.Completed = completed

	if err := db.Save(&p).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error saving progress %d: %v", p.ID, err)
	}
}
