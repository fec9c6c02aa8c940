package services

import "errors"

var (
	ErrSubmissionNotFound    = errors.New("checklist not found")
	ErrEquipmentNotFound     = errors.New("equipment not found")
	ErrEquipmentTypeNotFound = errors.New("equipment type not found")
	ErrInvalidStatus         = errors.New("invalid equipment status")
	ErrReportLinkDisabled    = errors.New("report links are not configured")
	ErrInvalidReportLink     = errors.New("invalid or expired report link")
)
