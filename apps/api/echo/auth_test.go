package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/dmecc/volunteerhub/core/user"
)

func Test_tokenRejection(t *testing.T) {
	usr := createTestUser(t, "tokens@test.cd", user.ScopeVolunteer)

	expiredClaims := GetUserClaims(usr, conf)
	expiredClaims.IssuedAt = time.Now().Add(-2 * time.Hour).Unix()
	expiredClaims.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	expiredToken, err := GenerateToken(expiredClaims, conf)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	badIssuerClaims := GetUserClaims(usr, conf)
	badIssuerClaims.Issuer = "someone-else"
	badIssuerToken, err := GenerateToken(badIssuerClaims, conf)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	badSigToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, GetUserClaims(usr, conf)).
		SignedString([]byte("not-the-secret"))
	if err != nil {
		t.Fatalf("SignedString() failed: %v", err)
	}

	tests := []httpTest{
		{name: "malformed token", token: "lol.not.ajwt", wantCode: http.StatusUnauthorized, wantData: errNotLoggedInBody},
		{name: "expired token", token: expiredToken, wantCode: http.StatusUnauthorized, wantData: errNotLoggedInBody},
		{name: "wrong issuer", token: badIssuerToken, wantCode: http.StatusUnauthorized, wantData: errNotLoggedInBody},
		{name: "wrong signature", token: badSigToken, wantCode: http.StatusUnauthorized, wantData: errNotLoggedInBody},
		{name: "valid token", token: getToken(t, usr), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/user/total-hours", tt.token)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
