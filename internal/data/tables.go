package data

import (
	"fmt"

	"github.com/l1jgo/playerd/internal/config"
)

// Tables bundles every static table the player logic reads.
type Tables struct {
	Vocations  *VocationTable
	Items      *ItemTypeTable
	Outfits    *OutfitTable
	Mounts     *MountTable
	Imbuements *ImbuementTable
	Map        *MapTable
}

func LoadTables(cfg config.DataConfig) (*Tables, error) {
	var (
		t   Tables
		err error
	)
	if t.Vocations, err = LoadVocationTable(cfg.Vocations); err != nil {
		return nil, err
	}
	if t.Items, err = LoadItemTypeTable(cfg.Items); err != nil {
		return nil, err
	}
	if t.Outfits, err = LoadOutfitTable(cfg.Outfits); err != nil {
		return nil, err
	}
	if t.Mounts, err = LoadMountTable(cfg.Mounts); err != nil {
		return nil, err
	}
	if t.Imbuements, err = LoadImbuementTable(cfg.Imbuements); err != nil {
		return nil, err
	}
	if t.Map, err = LoadMapTable(cfg.Map); err != nil {
		return nil, err
	}
	if t.Items.Count() == 0 {
		return nil, fmt.Errorf("item types %s: empty table", cfg.Items)
	}
	return &t, nil
}

// LoadDir loads all tables from the default file names under dir.
func LoadDir(dir string) (*Tables, error) {
	return LoadTables(config.DataConfig{
		Vocations:  dir + "/vocations.yaml",
		Items:      dir + "/items.yaml",
		Outfits:    dir + "/outfits.yaml",
		Mounts:     dir + "/mounts.yaml",
		Imbuements: dir + "/imbuements.yaml",
		Map:        dir + "/map.yaml",
	})
}
