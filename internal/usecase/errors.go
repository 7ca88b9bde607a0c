package usecase

import (
	"errors"
	"fmt"

	"github.com/Dubey-IITB/resume-tracker/internal/dto"
)

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrNoCandidates       = errors.New("no candidates to rank")
	ErrMatchNotFound      = errors.New("match not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrIdentityResolution = errors.New("identity resolution failed")
	// ErrExtractionFailure marks an upload whose text could not be extracted
	// when that blocks a later step.
	ErrExtractionFailure   = errors.New("no text could be extracted")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInactiveUser        = errors.New("user is inactive")
	ErrBatchRejected       = errors.New("no resume could be processed")
	ErrAnalysisUnavailable = errors.New("resume analysis unavailable")
)

type JobNotFoundError struct {
	JobID uint
}

func (e *JobNotFoundError) Error() string { return fmt.Sprintf("job %d not found", e.JobID) }

func (e *JobNotFoundError) Is(target error) bool { return target == ErrJobNotFound }

type NoCandidatesError struct {
	JobID uint
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no candidates available to rank for job %d", e.JobID)
}

func (e *NoCandidatesError) Is(target error) bool { return target == ErrNoCandidates }

type MatchNotFoundError struct {
	JobID uint
	Email string
}

func (e *MatchNotFoundError) Error() string {
	return fmt.Sprintf("no match for candidate %s on job %d", e.Email, e.JobID)
}

func (e *MatchNotFoundError) Is(target error) bool { return target == ErrMatchNotFound }

type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q: must be one of active, saved, rejected", e.Status)
}

func (e *InvalidStatusError) Is(target error) bool { return target == ErrInvalidStatus }

type IdentityResolutionError struct {
	FileName string
	Err      error
}

func (e *IdentityResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve candidate email for %q: %v", e.FileName, e.Err)
	}
	return fmt.Sprintf("cannot resolve candidate email for %q", e.FileName)
}

func (e *IdentityResolutionError) Is(target error) bool { return target == ErrIdentityResolution }

func (e *IdentityResolutionError) Unwrap() error { return e.Err }

// BatchRejectedError carries the per-item results of a batch in which every
// upload failed.
type BatchRejectedError struct {
	Results []dto.CandidateResultDTO
}

func (e *BatchRejectedError) Error() string {
	return fmt.Sprintf("all %d resumes were rejected", len(e.Results))
}

func (e *BatchRejectedError) Is(target error) bool { return target == ErrBatchRejected }

// Stage is a step of a ranking run.
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageScoring    Stage = "scoring"
	StageBlending   Stage = "blending"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// RankingError names the job and the stage a ranking run failed in.
type RankingError struct {
	JobID uint
	Stage Stage
	Err   error
}

func (e *RankingError) Error() string {
	return fmt.Sprintf("ranking job %d failed during %s: %v", e.JobID, e.Stage, e.Err)
}

func (e *RankingError) Unwrap() error { return e.Err }
