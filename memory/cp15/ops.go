// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package cp15

import (
	"github.com/jetsetilly/ndscore/errors"
	"github.com/jetsetilly/ndscore/logger"
)

// Op is a 12-bit CP15 operation id: one nibble each for the register
// (CRn), the sub-register (CRm) and opcode2, taken from the MCR/MRC
// instruction word. opcode1 is not part of the id.
type Op uint16

// documented operation ids.
const (
	OpID                     Op = 0x000
	OpControl                Op = 0x100
	OpCacheableData          Op = 0x200
	OpCacheableCode          Op = 0x201
	OpBufferable             Op = 0x300
	OpPermission0            Op = 0x500
	OpPermission1            Op = 0x501
	OpPermission2            Op = 0x502
	OpPermission3            Op = 0x503
	OpRegionBase0            Op = 0x600
	OpWaitForInterrupt1      Op = 0x704
	OpWaitForInterrupt2      Op = 0x782
	OpICacheInvalidateAll    Op = 0x750
	OpICacheInvalidateAddr   Op = 0x751
	OpICacheInvalidateSetWay Op = 0x752
	OpDCacheInvalidateAll    Op = 0x760
	OpDCacheInvalidateAddr   Op = 0x761
	OpDCacheInvalidateSetWay Op = 0x762
	OpDCacheCleanAddr        Op = 0x7a1
	OpDCacheCleanSetWay      Op = 0x7a2
	OpDrainWriteBuffer       Op = 0x7a4
	OpDCacheCleanInvAddr     Op = 0x7e1
	OpDCacheCleanInvSetWay   Op = 0x7e2
	OpCacheLockdown          Op = 0x900
	OpCacheLockdownD         Op = 0x901
	OpTCMSizeI               Op = 0x910
	OpTCMSizeD               Op = 0x911
	OpCacheDebugBase         Op = 0xf00
)

// regionOp returns the region index (0..7) for a region descriptor
// write/read, and whether the operation falls in the 0x6XY range used
// for region base/size/enable.
func regionOp(op Op) (region int, ok bool) {
	if op < 0x600 || op > 0x671 {
		return 0, false
	}
	region = int((op >> 4) & 0xf)
	if region > 7 {
		return 0, false
	}
	return region, true
}

// Read performs a privileged-only CP15 register read.
func (c *CP15) Read(op Op, privileged bool) (uint32, error) {
	if !privileged {
		return 0, errors.Errorf(errors.CP15PrivilegeViolation, op)
	}

	switch op {
	case OpID:
		// ARM946E-S part number / variant / revision, as melonDS reports it.
		return 0x41059461, nil
	case OpControl:
		return c.controlRegister(), nil
	}

	if region, ok := regionOp(op); ok {
		r := c.Regions[region]
		v := r.Base &^ 0xfff
		v |= encodeSizeField(r.Size)
		if r.Enabled {
			v |= 1
		}
		return v, nil
	}

	return 0, errors.Errorf(errors.CP15UnknownOperation, op)
}

// Write performs a privileged-only CP15 register write, applying the
// effect documented for op. drain and clean are invoked for the
// operations that need to push data through the write buffer; callers
// that do not care about cache maintenance (the ARM7, which has no CP15
// at all) never call this method.
func (c *CP15) Write(op Op, v uint32, privileged bool, clean CleanFunc, drain func() bool) error {
	if !privileged {
		return errors.Errorf(errors.CP15PrivilegeViolation, op)
	}

	logger.Logf("cp15", "write op %#03x = %#08x", op, v)

	switch op {
	case OpControl:
		c.setControlRegister(v)
		c.RebuildPermissionMap()
		return nil
	case OpCacheableData, OpCacheableCode, OpBufferable:
		c.applyBitfield(op, v)
		c.RebuildPermissionMap()
		return nil
	case OpPermission0, OpPermission1, OpPermission2, OpPermission3:
		c.applyPermissionField(op, v)
		c.RebuildPermissionMap()
		return nil
	case OpWaitForInterrupt1, OpWaitForInterrupt2:
		c.Halt()
		return nil
	case OpICacheInvalidateAll:
		InvalidateAll(&c.ICache)
		return nil
	case OpICacheInvalidateAddr:
		InvalidateAddress(&c.ICache, v)
		return nil
	case OpICacheInvalidateSetWay:
		set, way := decodeSetWay(v)
		InvalidateSetWay(&c.ICache, set, way)
		return nil
	case OpDCacheInvalidateAll:
		InvalidateAll(&c.DCache)
		return nil
	case OpDCacheInvalidateAddr:
		InvalidateAddress(&c.DCache, v)
		return nil
	case OpDCacheInvalidateSetWay:
		set, way := decodeSetWay(v)
		InvalidateSetWay(&c.DCache, set, way)
		return nil
	case OpDCacheCleanAddr:
		if _, line, hit := c.DCache.Lookup(v); hit {
			cleanLine(line, clean)
		}
		return nil
	case OpDCacheCleanSetWay:
		set, way := decodeSetWay(v)
		cleanLine(&c.DCache.sets[set][way], clean)
		return nil
	case OpDCacheCleanInvAddr:
		if _, line, hit := c.DCache.Lookup(v); hit {
			cleanLine(line, clean)
		}
		InvalidateAddress(&c.DCache, v)
		return nil
	case OpDCacheCleanInvSetWay:
		set, way := decodeSetWay(v)
		cleanLine(&c.DCache.sets[set][way], clean)
		InvalidateSetWay(&c.DCache, set, way)
		return nil
	case OpDrainWriteBuffer:
		for !drain() {
		}
		return nil
	case OpCacheLockdown:
		SetLockdown(&c.ICache, int(v&0xf))
		return nil
	case OpCacheLockdownD:
		SetLockdown(&c.DCache, int(v&0xf))
		return nil
	case OpTCMSizeI:
		c.itcmBase = v &^ 0xfff
		c.itcmSize = decodeSizeField(v)
		c.itcmEnabled = v&1 != 0
		return nil
	case OpTCMSizeD:
		c.dtcmBase = v &^ 0xfff
		c.dtcmSize = decodeSizeField(v)
		c.dtcmEnabled = v&1 != 0
		return nil
	}

	if region, ok := regionOp(op); ok {
		c.Regions[region].Base = v &^ 0xfff
		c.Regions[region].Size = decodeSizeField(v)
		c.Regions[region].Enabled = v&1 != 0
		c.RebuildPermissionMap()
		return nil
	}

	return errors.Errorf(errors.CP15UnknownOperation, op)
}

func (c *CP15) controlRegister() uint32 {
	var v uint32
	if c.Control.MPUEnable {
		v |= 1 << 0
	}
	if c.Control.DCacheEnable {
		v |= 1 << 2
	}
	if !c.Control.RoundRobin {
		v |= 1 << 14
	}
	if c.Control.HighVectors {
		v |= 1 << 13
	}
	if c.Control.ICacheEnable {
		v |= 1 << 12
	}
	if c.Control.BigEndian {
		v |= 1 << 7
	}
	if c.Control.WriteBufferOn {
		v |= 1 << 3
	}
	return v
}

func (c *CP15) setControlRegister(v uint32) {
	c.Control.MPUEnable = v&(1<<0) != 0
	c.Control.DCacheEnable = v&(1<<2) != 0
	c.Control.WriteBufferOn = v&(1<<3) != 0
	c.Control.BigEndian = v&(1<<7) != 0
	c.Control.ICacheEnable = v&(1<<12) != 0
	c.Control.HighVectors = v&(1<<13) != 0
	c.Control.RoundRobin = v&(1<<14) == 0
}

// applyBitfield updates the per-region cacheable/bufferable bit selected
// by op from an 8-bit field, one bit per region.
func (c *CP15) applyBitfield(op Op, v uint32) {
	for i := 0; i < 8; i++ {
		set := v&(1<<uint(i)) != 0
		switch op {
		case OpCacheableData, OpCacheableCode:
			c.Regions[i].Cacheable = set
		case OpBufferable:
			c.Regions[i].Bufferable = set
		}
	}
}

// applyPermissionField updates data/code access permissions for all eight
// regions from the 4-bit-per-region legacy encoding (the 2-bit and 4-bit
// modern forms both reduce to the same DataAccess/CodeAccess bitmask
// here; only the caller's encoding of v differs, and both forms are
// rebuilt the same way since the core only needs the resulting grant,
// not which encoding produced it).
func (c *CP15) applyPermissionField(op Op, v uint32) {
	for i := 0; i < 8; i++ {
		field := (v >> uint(i*4)) & 0xf
		var perm Permission
		switch field {
		case 0x0: // no access
		case 0x1, 0x2, 0x3: // privileged-only variants collapse to RW here
			perm = PermDataRead | PermDataWrite
		case 0x5, 0x6: // read-only variants
			perm = PermDataRead
		default:
			perm = PermDataRead | PermDataWrite
		}
		switch op {
		case OpPermission0, OpPermission1:
			c.Regions[i].DataAccess = perm
		case OpPermission2, OpPermission3:
			if perm != 0 {
				c.Regions[i].CodeAccess = PermCodeRead
			} else {
				c.Regions[i].CodeAccess = 0
			}
		}
	}
}

// encodeSizeField/decodeSizeField convert between a byte size and the
// 5-bit (size-1)-in-bits-minus-one field the region-size register packs
// into bits [5:1].
func decodeSizeField(v uint32) uint32 {
	field := (v >> 1) & 0x1f
	return 1 << (field + 1)
}

func encodeSizeField(size uint32) uint32 {
	if size == 0 {
		return 0
	}
	bits := uint32(0)
	for size > 2 {
		size >>= 1
		bits++
	}
	return bits << 1
}

func decodeSetWay(v uint32) (set, way int) {
	return int((v >> 4) & 0x3), int((v >> 30) & 0x3)
}
