// Package entity provides record helpers on top of the database package: a
// per-record lazy relation cache, batch preloading to avoid one query per
// record, and generic tables with id lookups and timestamp updates.
//
//	type User struct {
//	    entity.Entity
//	    Name string
//	}
//
//	users := entity.NewTable(db, "users",
//	    []database.Result{database.R("id", database.TypeInt64), database.R("name", database.TypeText)},
//	    func(row database.Row) (*User, error) {
//	        id, err := row.Int64("id")
//	        if err != nil {
//	            return nil, err
//	        }
//	        name, err := row.Text("name")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return &User{Entity: entity.Entity{ID: id}, Name: name}, nil
//	    })
//
//	// one query warms the author of every post
//	_, err := entity.PreloadTable(ctx, posts, users, func(p *Post) int64 { return p.AuthorID })
//	author, ok, err := entity.LazyLoadByID(ctx, posts[0], users, posts[0].AuthorID)
package entity
