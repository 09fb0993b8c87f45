package sessiondelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/ceobank/ceo-bank/pkg/randompkg"
	"github.com/ceobank/ceo-bank/pkg/web"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)
	os.Exit(m.Run())
}

func TestLogin(t *testing.T) {
	username := randompkg.Username()
	password := randompkg.String(10)
	token := randompkg.String(40)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewMockService(ctrl)
	handler := NewHandler(service)

	server := gin.New()
	url := "/login"
	server.POST(url, handler.Login)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "MissingPassword",
			requestBody: gin.H{
				"login": username,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "WrongPassword",
			requestBody: gin.H{
				"login":    username,
				"password": password,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq(username), gomock.Eq(password)).
					Times(1).
					Return("", domain.Account{}, domain.ErrWrongPassword)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "BlockedAccount",
			requestBody: gin.H{
				"login":    username,
				"password": password,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq(username), gomock.Eq(password)).
					Times(1).
					Return("", domain.Account{}, domain.ErrAccountBlocked)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusForbidden, recorder.Code)
			},
		},
		{
			name: "InternalError",
			requestBody: gin.H{
				"login":    username,
				"password": password,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq(username), gomock.Eq(password)).
					Times(1).
					Return("", domain.Account{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "OK",
			requestBody: gin.H{
				"login":    username,
				"password": password,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq(username), gomock.Eq(password)).
					Times(1).
					Return(token, domain.Account{Username: username, IsAdmin: true}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var resp web.Response
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
				require.Equal(t, token, resp.AccessToken)
				require.True(t, resp.IsAdmin)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			require.NoError(t, err)

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}
