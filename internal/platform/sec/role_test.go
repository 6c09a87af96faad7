// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleUser.AtLeast(sec.RoleUser))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))

	// Role names are case-sensitive.
	assert.False(t, sec.UserRole("admin").AtLeast(sec.RoleUser))
	assert.False(t, sec.UserRole("").Valid())
}

func TestRoleNames(t *testing.T) {
	assert.Equal(t, []string{"User", "Admin"}, sec.RoleNames())
}
