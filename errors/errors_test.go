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

package errors_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/ndscore/errors"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	if e.Error() != "test error: foo" {
		t.Errorf("unexpected error message: %s", e.Error())
	}

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := errors.Errorf(testError, e)
	if f.Error() != "test error: foo" {
		t.Errorf("unexpected error message: %s", f.Error())
	}
}

func TestIs(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	if !errors.Is(e, testError) {
		t.Errorf("expected Is(e, testError) to be true")
	}

	// Has() should fail because we haven't included testErrorB anywhere in the error
	if errors.Has(e, testErrorB) {
		t.Errorf("expected Has(e, testErrorB) to be false")
	}

	// wrapping e in a different head: Is() sees only the outer head while
	// Has() finds both
	f := errors.Errorf(testErrorB, e)
	if errors.Is(f, testError) {
		t.Errorf("expected Is(f, testError) to be false")
	}
	if !errors.Is(f, testErrorB) {
		t.Errorf("expected Is(f, testErrorB) to be true")
	}
	if !errors.Has(f, testError) {
		t.Errorf("expected Has(f, testError) to be true")
	}
	if !errors.Has(f, testErrorB) {
		t.Errorf("expected Has(f, testErrorB) to be true")
	}

	// IsAny should return true for these errors also
	if !errors.IsAny(e) {
		t.Errorf("expected IsAny(e) to be true")
	}
	if !errors.IsAny(f) {
		t.Errorf("expected IsAny(f) to be true")
	}
}

func TestPlainErrors(t *testing.T) {
	// test plain errors that haven't been formatted with our errors package
	e := fmt.Errorf("plain test error")
	if errors.IsAny(e) {
		t.Errorf("expected IsAny(e) to be false for a plain error")
	}

	if errors.Has(e, testError) {
		t.Errorf("expected Has(e, testError) to be false for a plain error")
	}
}
