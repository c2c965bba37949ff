package catalog

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultProducts is the built-in catalogue used when no seed source loads.
func DefaultProducts() []model.Product {
	p := func(id int64, name, price, image, category, description string, featured bool, stock int) model.Product {
		return model.Product{
			ID:          id,
			Name:        name,
			Price:       decimal.RequireFromString(price),
			Image:       "images/products/" + image,
			Category:    category,
			Description: description,
			Featured:    featured,
			Stock:       stock,
		}
	}

	return []model.Product{
		p(1, "Classic Bi-Fold Wallet", "45.00", "Wallet.jpg", "wallets", "Premium full-grain leather wallet with multiple card slots and cash compartment.", true, 25),
		p(2, "Slim Card Holder", "35.00", "Card-Holder.jpg", "accessories", "Minimalist leather card holder perfect for everyday carry.", true, 40),
		p(3, "Leather Crossbody Bag", "120.00", "Crossbodybag.jpg", "bags", "Elegant crossbody bag with adjustable strap and multiple compartments.", true, 15),
		p(4, "Classic Leather Belt", "55.00", "belt.jpg", "belts", "Handcrafted genuine leather belt with polished buckle.", true, 30),
		p(5, "Passport Wallet", "65.00", "passport-wallet.jpg", "wallets", "Travel organizer with passport slot and document pockets.", false, 20),
		p(6, "Leather Backpack", "180.00", "backpack.jpg", "bags", "Stylish leather backpack for work and travel.", false, 10),
		p(7, "Vintage Leather Briefcase", "250.00", "briefcase.jpg", "bags", "A timeless leather briefcase for the modern professional.", false, 8),
		p(8, "Key Holder Organizer", "20.00", "key-holder.jpg", "accessories", "Compact leather key holder to keep your keys organized.", true, 50),
		p(9, "Leather Journal Cover", "75.00", "journal.jpg", "accessories", "Handmade leather cover for your journal or notebook.", false, 12),
		p(10, "Braided Leather Bracelet", "25.00", "bracelet.jpg", "accessories", "Stylish braided leather bracelet with a magnetic clasp.", true, 60),
	}
}
