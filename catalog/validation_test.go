package catalog

import (
	"errors"
	"testing"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *Record
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &Record{Path: "visit/scan_1.yaml", ScanNumber: 1},
			wantErr: nil,
		},
		{
			name:    "zero ID is valid",
			record:  &Record{Path: "visit/scan_1.yaml"},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "empty path",
			record:  &Record{ScanNumber: 1},
			wantErr: ErrEmptyPath,
		},
		{
			name:    "negative scan number",
			record:  &Record{Path: "visit/scan_1.yaml", ScanNumber: -1},
			wantErr: ErrNegativeScanNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRecord() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("ValidateRecord() error = %v, want wrapped %v", err, ErrInvalidRecord)
			}
		})
	}
}
