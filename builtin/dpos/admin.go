// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"math/big"

	"github.com/sgnlabs/dpos/builtin/dpos/events"
	"github.com/sgnlabs/dpos/thor"
)

// Pause blocks every non-administrative operation. Owner only.
func (d *DPoS) Pause(env Env) (*Receipt, error) {
	logger.Debug("pausing", "caller", env.Caller)

	return d.call("pause", env, func(evs *events.Log) error {
		if err := d.access.Pause(env.Caller); err != nil {
			return err
		}
		evs.Emit(&events.Paused{Account: env.Caller})
		return nil
	})
}

// Unpause lifts a pause. Owner only.
func (d *DPoS) Unpause(env Env) (*Receipt, error) {
	logger.Debug("unpausing", "caller", env.Caller)

	return d.call("unpause", env, func(evs *events.Log) error {
		if err := d.access.Unpause(env.Caller); err != nil {
			return err
		}
		evs.Emit(&events.Unpaused{Account: env.Caller})
		return nil
	})
}

// UpdateEnableWhitelist switches the candidate whitelist on or off. Owner only.
func (d *DPoS) UpdateEnableWhitelist(env Env, enabled bool) (*Receipt, error) {
	return d.call("updateEnableWhitelist", env, func(evs *events.Log) error {
		if err := d.access.UpdateEnableWhitelist(env.Caller, enabled); err != nil {
			return err
		}
		evs.Emit(&events.WhitelistEnabled{Enabled: enabled})
		return nil
	})
}

func (d *DPoS) AddWhitelisted(env Env, account thor.Address) (*Receipt, error) {
	return d.call("addWhitelisted", env, func(evs *events.Log) error {
		if err := d.access.AddWhitelisted(env.Caller, account); err != nil {
			return err
		}
		evs.Emit(&events.WhitelistedAdded{Account: account})
		return nil
	})
}

func (d *DPoS) RemoveWhitelisted(env Env, account thor.Address) (*Receipt, error) {
	return d.call("removeWhitelisted", env, func(evs *events.Log) error {
		if err := d.access.RemoveWhitelisted(env.Caller, account); err != nil {
			return err
		}
		evs.Emit(&events.WhitelistedRemoved{Account: account})
		return nil
	})
}

// DrainToken moves engine held tokens to the owner. Only allowed while paused.
func (d *DPoS) DrainToken(env Env, amount *big.Int) (*Receipt, error) {
	logger.Debug("draining token", "caller", env.Caller, "amount", amount)

	return d.call("drainToken", env, func(evs *events.Log) error {
		if err := d.access.OnlyOwner(env.Caller); err != nil {
			return err
		}
		if err := d.access.WhenPaused(); err != nil {
			return err
		}
		if err := d.pushTokens(env.Caller, amount); err != nil {
			return err
		}
		evs.Emit(&events.DrainToken{Recipient: env.Caller, Amount: amount})
		logger.Warn("drained token", "owner", env.Caller, "amount", amount)
		return nil
	})
}
