// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/go-arcade/roleadmin/internal/engine/model"
	"github.com/go-arcade/roleadmin/internal/engine/repo"
	"github.com/go-arcade/roleadmin/pkg/bizerr"
	"github.com/go-arcade/roleadmin/pkg/cache"
	"github.com/go-arcade/roleadmin/pkg/database"
	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/go-arcade/roleadmin/pkg/metrics"
	"github.com/go-arcade/roleadmin/pkg/retry"
	"github.com/go-arcade/roleadmin/pkg/util"
)

const roleSelectUseKey = "roleadmin:role:select_use"

// RoleConfig tunes transaction retries and the role picker cache.
type RoleConfig struct {
	TxMaxAttempts  int
	TxBackoffMs    int
	SelectCacheTTL int // seconds
}

func (c *RoleConfig) SetDefaults() {
	if c.TxMaxAttempts <= 0 {
		c.TxMaxAttempts = 3
	}
	if c.TxBackoffMs <= 0 {
		c.TxBackoffMs = 50
	}
	if c.SelectCacheTTL <= 0 {
		c.SelectCacheTTL = 300
	}
}

// RoleService is the only writer of roles, their permission links and the
// role reference of users. Every multi-step write runs in one transaction.
type RoleService struct {
	db      database.IDatabase
	repos   *repo.Repositories
	metrics *metrics.RoleMetrics
	conf    RoleConfig

	// serializes SetDefault and Delete so the default role is stable while
	// either of them runs
	defaultMu sync.Mutex

	selectUse *cache.CachedQuery[[]model.RoleOption]
}

func NewRoleService(
	db database.IDatabase,
	repos *repo.Repositories,
	icache cache.ICache,
	roleMetrics *metrics.RoleMetrics,
	conf RoleConfig,
) *RoleService {
	conf.SetDefaults()
	rs := &RoleService{
		db:      db,
		repos:   repos,
		metrics: roleMetrics,
		conf:    conf,
	}
	rs.selectUse = cache.NewCachedQuery(
		icache,
		cache.StaticKey(roleSelectUseKey),
		func(ctx context.Context) ([]model.RoleOption, error) {
			return rs.repos.Role.ListRoleOptions(ctx)
		},
		cache.WithTTL[[]model.RoleOption](time.Duration(conf.SelectCacheTTL)*time.Second),
		cache.WithLogPrefix[[]model.RoleOption]("[RoleSelectUse]"),
	)
	return rs
}

// Add creates a role and links it to permIds.
func (rs *RoleService) Add(ctx context.Context, req *model.AddRoleReq, creatorId uint64) (role *model.Role, err error) {
	defer rs.observe(ctx, "add", time.Now(), &err)

	if req.Name == "" {
		return nil, bizerr.Validation(bizerr.KeyEmptyRoleName)
	}
	banEmail, err := normalizeBanEmail(req.BanEmail)
	if err != nil {
		return nil, err
	}
	permIds := util.Unique(req.PermIds)

	sendType := req.SendType
	if sendType == "" {
		sendType = model.SendTypeCount
	}

	err = rs.transaction(ctx, func(repos *repo.Repositories) error {
		existing, err := repos.Role.FindRoleByName(ctx, req.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return bizerr.Conflict(bizerr.KeyRoleNameExist)
		}
		if err := checkPermIds(ctx, repos, permIds); err != nil {
			return err
		}

		role = &model.Role{
			Name:        req.Name,
			Description: req.Description,
			Sort:        req.Sort,
			IsDefault:   model.RoleDefaultOff,
			SendType:    sendType,
			SendCount:   req.SendCount,
			BanEmail:    banEmail,
			UserId:      creatorId,
		}
		if err := repos.Role.CreateRole(ctx, role); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return bizerr.Conflict(bizerr.KeyRoleNameExist)
			}
			return err
		}
		return repos.Permission.AddRolePermissions(ctx, role.RoleId, permIds)
	})
	if err != nil {
		return nil, err
	}

	rs.invalidateSelectUse(ctx)
	log.WithContext(ctx).Infow("role created", "roleId", role.RoleId, "name", role.Name, "perms", len(permIds))
	return role, nil
}

// List returns every role by sort order. PermIds only holds button permissions.
func (rs *RoleService) List(ctx context.Context) (views []model.RoleView, err error) {
	defer rs.observe(ctx, "list", time.Now(), &err)

	roles, err := rs.repos.Role.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	roleIds := make([]uint64, 0, len(roles))
	for _, role := range roles {
		roleIds = append(roleIds, role.RoleId)
	}
	grouped, err := rs.repos.Permission.GetRolePermIdsByType(ctx, roleIds, model.PermTypeButton)
	if err != nil {
		return nil, err
	}

	views = make([]model.RoleView, 0, len(roles))
	for _, role := range roles {
		permIds := grouped[role.RoleId]
		if permIds == nil {
			permIds = []uint64{}
		}
		views = append(views, model.RoleView{
			Role:     role,
			BanEmail: role.BanEmails(),
			PermIds:  permIds,
		})
	}
	return views, nil
}

// SetRole updates a role and replaces its permission set. The default flag
// in req is ignored; use SetDefault.
func (rs *RoleService) SetRole(ctx context.Context, req *model.SetRoleReq) (err error) {
	defer rs.observe(ctx, "set", time.Now(), &err)

	if req.Name == "" {
		return bizerr.Validation(bizerr.KeyEmptyRoleName)
	}
	req.IsDefault = nil

	banEmail, err := normalizeBanEmail(req.BanEmail)
	if err != nil {
		return err
	}
	permIds := util.Unique(req.PermIds)

	err = rs.transaction(ctx, func(repos *repo.Repositories) error {
		role, err := repos.Role.FindRoleById(ctx, req.RoleId)
		if err != nil {
			return err
		}
		if role == nil {
			return bizerr.NotFound(bizerr.KeyRoleNotExist)
		}
		if req.Name != role.Name {
			other, err := repos.Role.FindRoleByName(ctx, req.Name)
			if err != nil {
				return err
			}
			if other != nil {
				return bizerr.Conflict(bizerr.KeyRoleNameExist)
			}
		}
		if err := checkPermIds(ctx, repos, permIds); err != nil {
			return err
		}

		updates := map[string]any{
			"name":      req.Name,
			"ban_email": banEmail,
		}
		util.SetIfNotNil(updates, "description", req.Description)
		util.SetIfNotNil(updates, "sort", req.Sort)
		util.SetIfNotNil(updates, "send_type", req.SendType)
		util.SetIfNotNil(updates, "send_count", req.SendCount)

		if err := repos.Role.UpdateRole(ctx, req.RoleId, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return bizerr.Conflict(bizerr.KeyRoleNameExist)
			}
			return err
		}
		return repos.Permission.SetRolePermissions(ctx, req.RoleId, permIds)
	})
	if err != nil {
		return err
	}

	rs.invalidateSelectUse(ctx)
	log.WithContext(ctx).Infow("role updated", "roleId", req.RoleId, "perms", len(permIds))
	return nil
}

// Delete removes a non-default role. Its users are moved to the default role
// before the role and its links are removed.
func (rs *RoleService) Delete(ctx context.Context, roleId uint64) (err error) {
	defer rs.observe(ctx, "delete", time.Now(), &err)

	rs.defaultMu.Lock()
	defer rs.defaultMu.Unlock()

	var moved int64
	var defaultRoleId uint64
	err = rs.transaction(ctx, func(repos *repo.Repositories) error {
		if err := repos.Role.LockRoles(ctx); err != nil {
			return err
		}

		role, err := repos.Role.FindRoleById(ctx, roleId)
		if err != nil {
			return err
		}
		if role == nil {
			return bizerr.NotFound(bizerr.KeyNotExist)
		}
		if role.IsDefault == model.RoleDefaultOn {
			return bizerr.Policy(bizerr.KeyDelDefRole)
		}

		def, err := repos.Role.FindDefaultRole(ctx)
		if err != nil {
			return err
		}
		if def == nil {
			return bizerr.Policy(bizerr.KeyNoDefRole)
		}
		defaultRoleId = def.RoleId

		if moved, err = repos.User.ReassignRole(ctx, roleId, def.RoleId); err != nil {
			return err
		}
		if err := repos.Permission.RemoveAllRolePermissions(ctx, roleId); err != nil {
			return err
		}
		return repos.Role.DeleteRole(ctx, roleId)
	})
	if err != nil {
		return err
	}

	rs.invalidateSelectUse(ctx)
	log.WithContext(ctx).Infow("role deleted", "roleId", roleId, "defaultRoleId", defaultRoleId, "movedUsers", moved)
	return nil
}

// SetDefault makes roleId the only default role.
func (rs *RoleService) SetDefault(ctx context.Context, roleId uint64) (err error) {
	defer rs.observe(ctx, "setDefault", time.Now(), &err)

	rs.defaultMu.Lock()
	defer rs.defaultMu.Unlock()

	err = rs.transaction(ctx, func(repos *repo.Repositories) error {
		if err := repos.Role.LockRoles(ctx); err != nil {
			return err
		}

		role, err := repos.Role.FindRoleById(ctx, roleId)
		if err != nil {
			return err
		}
		if role == nil {
			return bizerr.NotFound(bizerr.KeyRoleNotExist)
		}

		if err := repos.Role.ClearDefault(ctx); err != nil {
			return err
		}
		rows, err := repos.Role.MarkDefault(ctx, roleId)
		if err != nil {
			return err
		}
		if rows != 1 {
			return bizerr.NotFound(bizerr.KeyRoleNotExist)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithContext(ctx).Infow("default role changed", "roleId", roleId)
	return nil
}

// RoleSelectUse lists role options for pickers.
func (rs *RoleService) RoleSelectUse(ctx context.Context) (options []model.RoleOption, err error) {
	defer rs.observe(ctx, "selectUse", time.Now(), &err)
	return rs.selectUse.Get(ctx)
}

// SelectDefaultRole returns the default role, or nil when none is set.
func (rs *RoleService) SelectDefaultRole(ctx context.Context) (*model.Role, error) {
	return rs.repos.Role.FindDefaultRole(ctx)
}

// SelectById returns nil when the role does not exist.
func (rs *RoleService) SelectById(ctx context.Context, roleId uint64) (*model.Role, error) {
	return rs.repos.Role.FindRoleById(ctx, roleId)
}

// SelectByIdsHasPermKey returns the send quota of the roles in roleIds that
// hold the permission permKey.
func (rs *RoleService) SelectByIdsHasPermKey(ctx context.Context, roleIds []uint64, permKey string) ([]model.RoleQuota, error) {
	return rs.repos.Role.ListQuotaByPermKey(ctx, util.Unique(roleIds), permKey)
}

// SelectByIdsAndSendType returns ids of roles holding permKey whose send type is sendType.
func (rs *RoleService) SelectByIdsAndSendType(ctx context.Context, permKey, sendType string) ([]uint64, error) {
	return rs.repos.Role.ListRoleIdsByPermKeyAndSendType(ctx, permKey, sendType)
}

// SelectByUserId returns the role of a user, or nil.
func (rs *RoleService) SelectByUserId(ctx context.Context, userId uint64) (*model.Role, error) {
	return rs.repos.Role.FindRoleByUserId(ctx, userId)
}

// RolePermIds returns every permission linked to roleId, menus included.
func (rs *RoleService) RolePermIds(ctx context.Context, roleId uint64) ([]uint64, error) {
	return rs.repos.Permission.GetRolePermIds(ctx, roleId)
}

// transaction runs fn in one database transaction, retrying the whole
// transaction when it failed before commit.
func (rs *RoleService) transaction(ctx context.Context, fn func(repos *repo.Repositories) error) error {
	return retry.Do(ctx, func(ctx context.Context) error {
		var inner error
		err := rs.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			inner = fn(rs.repos.WithTx(tx))
			return inner
		})
		switch {
		case err == nil:
			return nil
		case inner != nil && bizerr.KindOf(inner) != bizerr.KindUnknown:
			return inner
		case inner != nil:
			// rolled back
			return bizerr.Transaction(inner, retry.IsRetryableError(inner))
		default:
			// commit failed; the outcome is unknown
			return bizerr.Transaction(err, false)
		}
	},
		retry.WithMaxAttempts(rs.conf.TxMaxAttempts),
		retry.WithBackoff(retry.Exponential(time.Duration(rs.conf.TxBackoffMs)*time.Millisecond, time.Second)),
		retry.WithJitter(retry.FullJitter),
		retry.WithRetryIf(bizerr.IsRetryable),
		retry.WithOnRetry(func(attempt int, err error) {
			log.WithContext(ctx).Warnw("role transaction failed, retrying", "attempt", attempt, "error", err)
		}),
	)
}

func (rs *RoleService) invalidateSelectUse(ctx context.Context) {
	if err := rs.selectUse.Invalidate(ctx); err != nil {
		log.WithContext(ctx).Warnw("failed to invalidate role options cache", "error", err)
	}
}

func (rs *RoleService) observe(ctx context.Context, op string, start time.Time, errp *error) {
	err := *errp
	rs.metrics.Observe(op, start, err)
	if err == nil {
		return
	}
	switch bizerr.KindOf(err) {
	case bizerr.KindTransaction, bizerr.KindUnknown:
		log.WithContext(ctx).Errorw("role operation failed", "op", op, "error", err)
	default:
		log.WithContext(ctx).Debugw("role operation rejected", "op", op, "kind", bizerr.KindOf(err).String(), "key", bizerr.KeyOf(err))
	}
}

// normalizeBanEmail drops blank entries, validates the rest and returns the
// stored comma-joined form.
func normalizeBanEmail(list []string) (string, error) {
	for _, item := range list {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		if !util.IsEmail(item) {
			return "", bizerr.Validation(bizerr.KeyNotEmail)
		}
	}
	return util.JoinList(list), nil
}

func checkPermIds(ctx context.Context, repos *repo.Repositories, permIds []uint64) error {
	if len(permIds) == 0 {
		return nil
	}
	existing, err := repos.Permission.ExistingPermIds(ctx, permIds)
	if err != nil {
		return err
	}
	if len(existing) != len(permIds) {
		return bizerr.Validation(bizerr.KeyPermNotExist)
	}
	return nil
}
