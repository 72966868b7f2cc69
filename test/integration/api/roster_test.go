// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

//go:build integration

package api_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

var _ = Describe("Character roster", func() {
	const password = "Mithril$3019"

	var token string

	BeforeEach(func() {
		name := uniqueName("gimli")
		token = registerAndLogin(name, name+"@erebor.example", password)
	})

	createCharacter := func(tok, name string) string {
		GinkgoHelper()
		resp := call(http.MethodPost, "/characters", tok, map[string]any{
			"name": name, "class": "Guerreiro", "level": 5,
		})
		Expect(resp.status).To(Equal(http.StatusCreated))
		id, ok := resp.body["id"].(string)
		Expect(ok).To(BeTrue())
		return id
	}

	Describe("Characters", func() {
		It("starts with an empty roster", func() {
			resp := call(http.MethodGet, "/characters", token, nil)

			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.list).To(BeEmpty())
		})

		It("creates, lists, updates, and deletes a character", func() {
			id := createCharacter(token, "Gimli")

			list := call(http.MethodGet, "/characters", token, nil)
			Expect(list.list).To(HaveLen(1))
			Expect(list.list[0]["name"]).To(Equal("Gimli"))

			updated := call(http.MethodPut, "/characters/"+id, token, map[string]any{
				"name": "Gimli", "class": "Senhor das Cavernas", "level": 12,
			})
			Expect(updated.status).To(Equal(http.StatusOK))
			Expect(updated.body["class"]).To(Equal("Senhor das Cavernas"))
			Expect(updated.body["level"]).To(BeEquivalentTo(12))

			deleted := call(http.MethodDelete, "/characters/"+id, token, nil)
			Expect(deleted.status).To(Equal(http.StatusOK))
			Expect(deleted.body["deleted"]).To(BeTrue())

			gone := call(http.MethodGet, "/characters/"+id, token, nil)
			Expect(gone.status).To(Equal(http.StatusNotFound))
		})

		It("defaults level to 1 when omitted", func() {
			resp := call(http.MethodPost, "/characters", token, map[string]any{
				"name": "Novato", "class": "Escudeiro",
			})

			Expect(resp.status).To(Equal(http.StatusCreated))
			Expect(resp.body["level"]).To(BeEquivalentTo(1))
		})

		It("enforces name uniqueness per owner, not globally", func() {
			createCharacter(token, "Balin")

			dup := call(http.MethodPost, "/characters", token, map[string]any{
				"name": "balin", "class": "Guerreiro",
			})
			Expect(dup.status).To(Equal(http.StatusConflict))
			Expect(errorCode(dup)).To(Equal("CHARACTER_NAME_TAKEN"))

			otherName := uniqueName("dwalin")
			otherToken := registerAndLogin(otherName, otherName+"@erebor.example", password)
			createCharacter(otherToken, "Balin")
		})
	})

	Describe("Ownership masking", func() {
		It("answers a foreign character exactly like a missing one", func() {
			otherName := uniqueName("legolas")
			otherToken := registerAndLogin(otherName, otherName+"@mirkwood.example", password)
			foreignID := createCharacter(otherToken, "Legolas")

			foreign := call(http.MethodGet, "/characters/"+foreignID, token, nil)
			missing := call(http.MethodGet, "/characters/01ARZ3NDEKTSV4RRFFQ69G5FAV", token, nil)

			Expect(foreign.status).To(Equal(http.StatusNotFound))
			Expect(missing.status).To(Equal(http.StatusNotFound))
			Expect(foreign.body).To(Equal(missing.body))
		})

		It("refuses to update or delete a foreign character", func() {
			otherName := uniqueName("boromir")
			otherToken := registerAndLogin(otherName, otherName+"@gondor.example", password)
			foreignID := createCharacter(otherToken, "Boromir")

			update := call(http.MethodPut, "/characters/"+foreignID, token, map[string]any{
				"name": "Hijacked", "class": "Ladrao", "level": 1,
			})
			Expect(update.status).To(Equal(http.StatusNotFound))

			del := call(http.MethodDelete, "/characters/"+foreignID, token, nil)
			Expect(del.status).To(Equal(http.StatusNotFound))

			still := call(http.MethodGet, "/characters/"+foreignID, otherToken, nil)
			Expect(still.status).To(Equal(http.StatusOK))
			Expect(still.body["name"]).To(Equal("Boromir"))
		})
	})

	Describe("Inventory", func() {
		var charID string

		BeforeEach(func() {
			charID = createCharacter(token, "Gloin")
		})

		It("adds, lists, updates, and removes items", func() {
			added := call(http.MethodPost, "/characters/"+charID+"/inventory", token, map[string]string{
				"name": "Machado", "description": "Family axe", "type": "arma",
			})
			Expect(added.status).To(Equal(http.StatusCreated))
			itemID, ok := added.body["id"].(string)
			Expect(ok).To(BeTrue())

			list := call(http.MethodGet, "/characters/"+charID+"/inventory", token, nil)
			Expect(list.list).To(HaveLen(1))

			// A sparse update body replaces every field.
			updated := call(http.MethodPut, "/characters/"+charID+"/inventory/"+itemID, token, map[string]string{
				"name": "Machado de Guerra",
			})
			Expect(updated.status).To(Equal(http.StatusOK))
			Expect(updated.body["name"]).To(Equal("Machado de Guerra"))
			Expect(updated.body["description"]).To(Equal(""))
			Expect(updated.body["type"]).To(Equal(""))

			deleted := call(http.MethodDelete, "/characters/"+charID+"/inventory/"+itemID, token, nil)
			Expect(deleted.status).To(Equal(http.StatusOK))
			Expect(deleted.body["deleted"]).To(BeTrue())

			empty := call(http.MethodGet, "/characters/"+charID+"/inventory", token, nil)
			Expect(empty.list).To(BeEmpty())
		})

		It("hides items on a foreign character", func() {
			added := call(http.MethodPost, "/characters/"+charID+"/inventory", token, map[string]string{
				"name": "Elmo", "type": "armadura",
			})
			itemID, ok := added.body["id"].(string)
			Expect(ok).To(BeTrue())

			otherName := uniqueName("thief")
			otherToken := registerAndLogin(otherName, otherName+"@bree.example", password)

			peek := call(http.MethodGet, "/characters/"+charID+"/inventory/"+itemID, otherToken, nil)
			Expect(peek.status).To(Equal(http.StatusNotFound))

			steal := call(http.MethodDelete, "/characters/"+charID+"/inventory/"+itemID, otherToken, nil)
			Expect(steal.status).To(Equal(http.StatusNotFound))

			still := call(http.MethodGet, "/characters/"+charID+"/inventory/"+itemID, token, nil)
			Expect(still.status).To(Equal(http.StatusOK))
		})

		It("deletes the inventory with its character", func() {
			call(http.MethodPost, "/characters/"+charID+"/inventory", token, map[string]string{
				"name": "Tocha", "type": "ferramenta",
			})

			deleted := call(http.MethodDelete, "/characters/"+charID, token, nil)
			Expect(deleted.status).To(Equal(http.StatusOK))

			inventory := call(http.MethodGet, "/characters/"+charID+"/inventory", token, nil)
			Expect(inventory.status).To(Equal(http.StatusNotFound))
		})
	})
})
