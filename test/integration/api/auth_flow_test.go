// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

//go:build integration

package api_test

import (
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

// uniqueName returns a username that no other spec has used.
func uniqueName(prefix string) string {
	return prefix + "_" + strings.ToLower(ulid.Make().String()[16:])
}

var _ = Describe("Account lifecycle", func() {
	const password = "Mellon$3019"

	Describe("Registration", func() {
		It("creates an account and returns the profile without the password", func() {
			name := uniqueName("bilbo")
			resp := call(http.MethodPost, "/register", "", map[string]string{
				"username":         name,
				"email":            name + "@shire.example",
				"password":         password,
				"confirm_password": password,
			})

			Expect(resp.status).To(Equal(http.StatusCreated))
			Expect(resp.body["username"]).To(Equal(name))
			Expect(resp.body["id"]).NotTo(BeEmpty())
			Expect(resp.body).NotTo(HaveKey("password"))
			Expect(resp.body).NotTo(HaveKey("password_hash"))
		})

		It("rejects a duplicate username regardless of case", func() {
			name := uniqueName("meriadoc")
			registerAndLogin(name, name+"@shire.example", password)

			resp := call(http.MethodPost, "/register", "", map[string]string{
				"username":         strings.ToUpper(name),
				"email":            name + "+other@shire.example",
				"password":         password,
				"confirm_password": password,
			})

			Expect(resp.status).To(Equal(http.StatusConflict))
			Expect(errorCode(resp)).To(Equal("AUTH_USERNAME_TAKEN"))
		})

		It("rejects a duplicate email with its own message", func() {
			name := uniqueName("peregrin")
			registerAndLogin(name, name+"@shire.example", password)

			resp := call(http.MethodPost, "/register", "", map[string]string{
				"username":         uniqueName("peregrin"),
				"email":            name + "@shire.example",
				"password":         password,
				"confirm_password": password,
			})

			Expect(resp.status).To(Equal(http.StatusConflict))
			Expect(errorCode(resp)).To(Equal("AUTH_EMAIL_TAKEN"))
		})

		It("rejects a weak password before touching storage", func() {
			resp := call(http.MethodPost, "/register", "", map[string]string{
				"username":         uniqueName("weak"),
				"email":            uniqueName("weak") + "@shire.example",
				"password":         "lowercaseonly",
				"confirm_password": "lowercaseonly",
			})

			Expect(resp.status).To(Equal(http.StatusBadRequest))
			Expect(errorCode(resp)).To(Equal("AUTH_INVALID_PASSWORD"))
		})
	})

	Describe("Login", func() {
		It("answers wrong password and unknown user identically", func() {
			name := uniqueName("samwise")
			registerAndLogin(name, name+"@shire.example", password)

			wrongPassword := call(http.MethodPost, "/login", "", map[string]string{
				"username": name,
				"password": "Wrong$3019x",
			})
			unknownUser := call(http.MethodPost, "/login", "", map[string]string{
				"username": uniqueName("nobody"),
				"password": "Wrong$3019x",
			})

			Expect(wrongPassword.status).To(Equal(http.StatusUnauthorized))
			Expect(unknownUser.status).To(Equal(http.StatusUnauthorized))
			Expect(wrongPassword.body).To(Equal(unknownUser.body))
		})
	})

	Describe("Profile", func() {
		It("returns the caller's own profile", func() {
			name := uniqueName("fredegar")
			token := registerAndLogin(name, name+"@shire.example", password)

			resp := call(http.MethodGet, "/profile", token, nil)

			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body["username"]).To(Equal(name))
		})

		It("invalidates outstanding tokens when the username changes", func() {
			name := uniqueName("lotho")
			token := registerAndLogin(name, name+"@shire.example", password)

			renamed := uniqueName("lotho")
			resp := call(http.MethodPut, "/profile", token, map[string]string{
				"username": renamed,
				"email":    name + "@shire.example",
			})
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body["username"]).To(Equal(renamed))

			stale := call(http.MethodGet, "/profile", token, nil)
			Expect(stale.status).To(Equal(http.StatusUnauthorized))
			Expect(errorCode(stale)).To(Equal("AUTH_INVALID_CREDENTIALS"))

			fresh := call(http.MethodPost, "/login", "", map[string]string{
				"username": renamed,
				"password": password,
			})
			Expect(fresh.status).To(Equal(http.StatusOK))
		})

		It("changes the password when both fields are sent", func() {
			name := uniqueName("folco")
			token := registerAndLogin(name, name+"@shire.example", password)

			const newPassword = "Lembas$3020"
			resp := call(http.MethodPut, "/profile", token, map[string]string{
				"username":         name,
				"email":            name + "@shire.example",
				"new_password":     newPassword,
				"confirm_password": newPassword,
			})
			Expect(resp.status).To(Equal(http.StatusOK))

			oldLogin := call(http.MethodPost, "/login", "", map[string]string{
				"username": name,
				"password": password,
			})
			Expect(oldLogin.status).To(Equal(http.StatusUnauthorized))

			newLogin := call(http.MethodPost, "/login", "", map[string]string{
				"username": name,
				"password": newPassword,
			})
			Expect(newLogin.status).To(Equal(http.StatusOK))
		})

		It("rejects requests without a token", func() {
			resp := call(http.MethodGet, "/profile", "", nil)

			Expect(resp.status).To(Equal(http.StatusUnauthorized))
			Expect(errorCode(resp)).To(Equal("AUTH_INVALID_CREDENTIALS"))
		})
	})
})
