package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const reportLinkIssuer = "energy-center-checklist"

// ReportClaims identify the checklist report a shared link opens.
type ReportClaims struct {
	SubmissionID uint      `json:"checklist_id"`
	Layout       PDFLayout `json:"layout"`
	jwt.RegisteredClaims
}

// ReportLink is a signed, expiring link to a checklist PDF.
type ReportLink struct {
	Token     string
	ExpiresAt time.Time
}

// ReportLinker signs and verifies report links with a shared HMAC secret.
type ReportLinker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewReportLinker(secret string, ttl time.Duration) *ReportLinker {
	return &ReportLinker{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Enabled is false when no secret is configured.
func (l *ReportLinker) Enabled() bool {
	return l != nil && len(l.secret) > 0
}

// Sign issues a link token for one submission.
func (l *ReportLinker) Sign(submissionID uint, layout PDFLayout) (*ReportLink, error) {
	if !l.Enabled() {
		return nil, ErrReportLinkDisabled
	}

	now := l.now()
	expiresAt := now.Add(l.ttl)
	claims := ReportClaims{
		SubmissionID: submissionID,
		Layout:       layout,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    reportLinkIssuer,
			Subject:   strconv.FormatUint(uint64(submissionID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return nil, err
	}
	return &ReportLink{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify returns the claims of a valid, unexpired token.
func (l *ReportLinker) Verify(token string) (*ReportClaims, error) {
	if !l.Enabled() {
		return nil, ErrReportLinkDisabled
	}

	claims := &ReportClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(reportLinkIssuer),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReportLink, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidReportLink
	}
	if claims.SubmissionID == 0 {
		return nil, ErrInvalidReportLink
	}
	claims.Layout = ParsePDFLayout(string(claims.Layout))
	return claims, nil
}
