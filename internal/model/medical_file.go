package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalFile stores file metadata with the content inline as base64
type MedicalFile struct {
	Base
	PatientID   uuid.UUID  `json:"patient_id" db:"patient_id"`
	RecordID    *uuid.UUID `json:"record_id" db:"record_id"`
	FileType    string     `json:"file_type" db:"file_type"`
	FileName    string     `json:"file_name" db:"file_name"`
	FileData    string     `json:"file_data" db:"file_data"`
	UploadDate  time.Time  `json:"upload_date" db:"upload_date"`
	Description *string    `json:"description" db:"description"`
}

// CreateMedicalFileRequest carries an inline upload
type CreateMedicalFileRequest struct {
	PatientID   uuid.UUID  `json:"patient_id" binding:"required"`
	RecordID    *uuid.UUID `json:"record_id"`
	FileType    string     `json:"file_type" binding:"required"`
	FileName    string     `json:"file_name" binding:"required"`
	FileData    string     `json:"file_data" binding:"required,base64"`
	Description *string    `json:"description"`
}
