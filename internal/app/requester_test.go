package app

import "testing"

func TestParseRequester(t *testing.T) {
	tests := []struct {
		name     string
		userID   int64
		code     string
		password string
		wantErr  bool
		wantUser int64
		wantLink bool
	}{
		{name: "authenticated user", userID: 3, wantUser: 3},
		{name: "link without password", code: "abc", wantLink: true},
		{name: "link with password", code: "abc", password: "pw", wantLink: true},
		{name: "both", userID: 3, code: "abc", wantErr: true},
		{name: "password without link", userID: 3, password: "pw", wantErr: true},
		{name: "neither", wantErr: true},
		{name: "negative id", userID: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequester(tt.userID, tt.code, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRequester() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if req.UserID() != tt.wantUser {
				t.Errorf("UserID() = %d, want %d", req.UserID(), tt.wantUser)
			}
			if (req.Link() != nil) != tt.wantLink {
				t.Errorf("Link() = %v, wantLink %v", req.Link(), tt.wantLink)
			}
			if tt.wantLink && (req.Link().Code != tt.code || req.Link().Password != tt.password) {
				t.Errorf("Link() = %+v", req.Link())
			}
		})
	}
}
